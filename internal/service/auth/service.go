package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/auth"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/user"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	users      user.Repository
	jwtService jwt.Service
}

// Login implements auth.Service. A wrong email and a wrong password look
// identical to the caller.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AuthResponse{}, err
	}

	u, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AuthResponse{}, auth.ErrInvalidCredentials
		}
		return auth.AuthResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.AuthResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(u)
}

// Refresh implements auth.Service. Exchanges a valid refresh token for a
// fresh token pair.
func (a *AuthServiceImpl) Refresh(ctx context.Context, req auth.RefreshRequest) (auth.AuthResponse, error) {
	if req.RefreshToken == "" {
		return auth.AuthResponse{}, auth.ErrInvalidToken
	}

	token, err := a.jwtService.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		return auth.AuthResponse{}, auth.ErrInvalidToken
	}

	if !token.Expiration().IsZero() && time.Now().After(token.Expiration()) {
		return auth.AuthResponse{}, auth.ErrTokenExpired
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AuthResponse{}, auth.ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.AuthResponse{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.AuthResponse{}, auth.ErrInvalidToken
	}

	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AuthResponse{}, auth.ErrInvalidToken
		}
		return auth.AuthResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	return a.issueTokens(u)
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.AuthResponse, error) {
	accessToken, accessExp, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.IsAdmin)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := a.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.AuthResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

func NewAuthService(users user.Repository, jwtService jwt.Service) auth.Service {
	return &AuthServiceImpl{
		users:      users,
		jwtService: jwtService,
	}
}
