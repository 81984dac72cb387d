package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/auth"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/response"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.Service
	jwtService  jwt.Service
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(result.RefreshToken, result.RefreshTokenExpiresAt))
	response.SuccessWithMessage(w, "Login successful", result)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.Refresh(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Logout implements AuthHandler. Tokens are stateless, so logout amounts to
// clearing the refresh cookie; clients discard the access token themselves.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, a.jwtService.RefreshTokenCookie("", 0))
	response.SuccessWithMessage(w, "Logged out", nil)
}

func NewAuthHandler(authService auth.Service, jwtService jwt.Service) AuthHandler {
	return &AuthHandlerImpl{authService: authService, jwtService: jwtService}
}
