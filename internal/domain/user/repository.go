package user

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)

type Repository interface {
	// GetByEmail retrieves a user by email; ErrUserNotFound when missing
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByID retrieves a user by id; ErrUserNotFound when missing
	GetByID(ctx context.Context, id string) (User, error)
}
