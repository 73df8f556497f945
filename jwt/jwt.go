// Package jwt implements askweb.Authenticator with bcrypt password hashes and
// HS256-signed session tokens.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLen is the minimum HMAC key length in bytes.
const MinSecretLen = 32

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// DefaultTTL is how long a session token stays valid.
const DefaultTTL = 24 * time.Hour

// Claims is the payload of a session token. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email,omitempty"`
	Role  askweb.Role `json:"role"`
}

// Ensure Authenticator implements askweb.Authenticator.
var _ askweb.Authenticator = (*Authenticator)(nil)

// Authenticator verifies passwords against the user store and issues tokens.
type Authenticator struct {
	users  askweb.UserService
	secret []byte

	// TTL is the token lifetime. Zero means DefaultTTL.
	TTL time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewAuthenticator creates a new Authenticator.
// Returns EINVALID if the secret is shorter than MinSecretLen.
func NewAuthenticator(users askweb.UserService, secret []byte) (*Authenticator, error) {
	if len(secret) < MinSecretLen {
		return nil, askweb.Errorf(askweb.EINVALID, "secret must be at least %d bytes", MinSecretLen)
	}
	return &Authenticator{
		users:  users,
		secret: secret,
		TTL:    DefaultTTL,
		Now:    time.Now,
	}, nil
}

// Login checks email and password and returns a signed token.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, *askweb.User, error) {
	user, err := a.users.FindUserByEmail(ctx, email)
	if askweb.ErrorCode(err) == askweb.ENOTFOUND {
		return "", nil, askweb.Errorf(askweb.EUNAUTHORIZED, "invalid email or password")
	} else if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, askweb.Errorf(askweb.EUNAUTHORIZED, "invalid email or password")
	}

	token, err := a.sign(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Me validates a token and loads its user.
func (a *Authenticator) Me(ctx context.Context, token string) (*askweb.User, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, askweb.Errorf(askweb.EUNAUTHORIZED, "invalid session")
	}

	user, err := a.users.FindUserByID(ctx, claims.Subject)
	if askweb.ErrorCode(err) == askweb.ENOTFOUND {
		return nil, askweb.Errorf(askweb.EUNAUTHORIZED, "invalid session")
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Authenticator) sign(user *askweb.User) (string, error) {
	now := a.now()
	ttl := a.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// parse only accepts HS256 tokens.
func (a *Authenticator) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (a *Authenticator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// HashPassword returns the bcrypt hash of password.
// Returns EINVALID if the password is shorter than MinPasswordLen.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", askweb.Errorf(askweb.EINVALID, "password must be at least %d characters", MinPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
