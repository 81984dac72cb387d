package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// isAdminRequest reads the admin flag from the verified token claims.
func isAdminRequest(r *http.Request) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}
	admin, ok := claims["is_admin"].(bool)
	return ok && admin
}
