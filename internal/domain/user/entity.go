package user

import (
	"time"
)

// User is a login principal. Most users map to an employee; admin-only
// accounts may have no employee record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
