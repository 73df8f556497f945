package mock

import (
	"context"

	"github.com/fwojciec/askweb"
)

var _ askweb.UserService = (*UserService)(nil)

// UserService is a mock implementation of askweb.UserService.
type UserService struct {
	CreateUserFn         func(ctx context.Context, user *askweb.User) error
	FindUserByIDFn       func(ctx context.Context, id string) (*askweb.User, error)
	FindUserByEmailFn    func(ctx context.Context, email string) (*askweb.User, error)
	UpdateUserSettingsFn func(ctx context.Context, id string, settings askweb.Settings) (*askweb.User, error)
}

func (s *UserService) CreateUser(ctx context.Context, user *askweb.User) error {
	return s.CreateUserFn(ctx, user)
}

func (s *UserService) FindUserByID(ctx context.Context, id string) (*askweb.User, error) {
	return s.FindUserByIDFn(ctx, id)
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*askweb.User, error) {
	return s.FindUserByEmailFn(ctx, email)
}

func (s *UserService) UpdateUserSettings(ctx context.Context, id string, settings askweb.Settings) (*askweb.User, error) {
	return s.UpdateUserSettingsFn(ctx, id, settings)
}

var _ askweb.Authenticator = (*Authenticator)(nil)

// Authenticator is a mock implementation of askweb.Authenticator.
type Authenticator struct {
	LoginFn func(ctx context.Context, email, password string) (string, *askweb.User, error)
	MeFn    func(ctx context.Context, token string) (*askweb.User, error)
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (string, *askweb.User, error) {
	return a.LoginFn(ctx, email, password)
}

func (a *Authenticator) Me(ctx context.Context, token string) (*askweb.User, error) {
	return a.MeFn(ctx, token)
}
