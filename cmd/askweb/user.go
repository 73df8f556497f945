package main

import (
	"fmt"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/jwt"
)

// Run executes the "user add" command.
func (c *UserAddCmd) Run(deps *Dependencies) error {
	hash, err := jwt.HashPassword(c.Password)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
		return err
	}

	user := &askweb.User{
		Email:        c.Email,
		FullName:     c.Name,
		Role:         askweb.RoleUser,
		PasswordHash: hash,
	}
	if c.Admin {
		user.Role = askweb.RoleAdmin
	}

	if err := deps.Users.CreateUser(deps.Ctx, user); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added user %s (%s)\n", user.Email, user.ID)
	return nil
}
