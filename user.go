package askweb

import (
	"context"
	"strings"
	"time"
)

// Role is a user's access level.
type Role string

// Role constants.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a signed-in person.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Settings     *Settings `json:"settings,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the user contains invalid fields.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return Errorf(EINVALID, "user email required")
	}
	if !strings.Contains(u.Email, "@") {
		return Errorf(EINVALID, "user email %q is not an email address", u.Email)
	}
	if strings.TrimSpace(u.FullName) == "" {
		return Errorf(EINVALID, "user full name required")
	}
	switch u.Role {
	case RoleUser, RoleAdmin:
	default:
		return Errorf(EINVALID, "unknown role %q", u.Role)
	}
	if u.Settings != nil {
		return u.Settings.Validate()
	}
	return nil
}

// ResolvedSettings returns the user's settings, or the baseline when none
// have been saved. Safe to call on a nil user.
func (u *User) ResolvedSettings() Settings {
	if u == nil || u.Settings == nil {
		return DefaultSettings()
	}
	return *u.Settings
}

// UserService represents a service for managing users.
type UserService interface {
	// CreateUser creates a new user.
	// Returns ECONFLICT if the email is already registered.
	CreateUser(ctx context.Context, user *User) error

	// FindUserByID retrieves a user by ID.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByID(ctx context.Context, id string) (*User, error)

	// FindUserByEmail retrieves a user by email.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateUserSettings replaces the user's settings.
	// Returns ENOTFOUND if the user does not exist.
	UpdateUserSettings(ctx context.Context, id string, settings Settings) (*User, error)
}

// Authenticator verifies credentials and resolves sessions.
type Authenticator interface {
	// Login checks the credentials and returns a session token.
	// Returns EUNAUTHORIZED if they do not match a user.
	Login(ctx context.Context, email, password string) (string, *User, error)

	// Me returns the user a session token belongs to.
	// Returns EUNAUTHORIZED if the token is invalid or expired.
	Me(ctx context.Context, token string) (*User, error)
}

type userContextKey struct{}

// NewContextWithUser returns a new context with the given user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the current logged in user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// UserIDFromContext is a helper function that returns the ID of the current
// logged in user. Returns an empty string if no user is logged in.
func UserIDFromContext(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}
