package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ askweb.UserService = (*UserService)(nil)

// UserService implements askweb.UserService using SQLite.
type UserService struct {
	db *DB
}

// NewUserService creates a new UserService.
func NewUserService(db *DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, email, full_name, role, password_hash, settings, created_at, updated_at"

// CreateUser creates a new user. Emails are stored lowercased.
func (s *UserService) CreateUser(ctx context.Context, user *askweb.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = askweb.RoleUser
	}
	if err := user.Validate(); err != nil {
		return err
	}

	if _, err := s.FindUserByEmail(ctx, user.Email); err == nil {
		return askweb.Errorf(askweb.ECONFLICT, "user %q already exists", user.Email)
	} else if askweb.ErrorCode(err) != askweb.ENOTFOUND {
		return err
	}

	settings, err := encodeSettings(user.Settings)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, role, password_hash, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, user.Email, user.FullName, string(user.Role), user.PasswordHash, settings,
		formatTime(now), formatTime(now))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return askweb.Errorf(askweb.ECONFLICT, "user %q already exists", user.Email)
		}
		return err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// FindUserByID retrieves a user by ID.
func (s *UserService) FindUserByID(ctx context.Context, id string) (*askweb.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

// FindUserByEmail retrieves a user by email, ignoring case.
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*askweb.User, error) {
	return s.findUser(ctx, "email = ?", normalizeEmail(email))
}

// UpdateUserSettings replaces the user's settings.
// A zero version is stamped with the current SettingsVersion.
func (s *UserService) UpdateUserSettings(ctx context.Context, id string, settings askweb.Settings) (*askweb.User, error) {
	if settings.Version == 0 {
		settings.Version = askweb.SettingsVersion
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	encoded, err := encodeSettings(&settings)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET settings = ?, updated_at = ? WHERE id = ?",
		encoded, formatTime(now), id)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, askweb.Errorf(askweb.ENOTFOUND, "user not found")
	}

	return s.FindUserByID(ctx, id)
}

func (s *UserService) findUser(ctx context.Context, where string, arg any) (*askweb.User, error) {
	var user askweb.User
	var role, createdAt, updatedAt string
	var settings sql.NullString

	err := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg).
		Scan(&user.ID, &user.Email, &user.FullName, &role, &user.PasswordHash, &settings,
			&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, askweb.Errorf(askweb.ENOTFOUND, "user not found")
	}
	if err != nil {
		return nil, err
	}

	user.Role = askweb.Role(role)

	if settings.Valid && settings.String != "" {
		var decoded askweb.Settings
		if err := json.Unmarshal([]byte(settings.String), &decoded); err != nil {
			return nil, fmt.Errorf("failed to decode settings: %w", err)
		}
		user.Settings = &decoded
	}

	if user.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &user, nil
}

// encodeSettings returns the JSON column value, or NULL for nil settings.
func encodeSettings(settings *askweb.Settings) (sql.NullString, error) {
	if settings == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode settings: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
