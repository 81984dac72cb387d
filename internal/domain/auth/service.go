package auth

import (
	"context"
)

// Service defines the login/refresh flow.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (AuthResponse, error)
}
