package postgresql

import (
	"context"
	"fmt"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/user"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db *database.DB
}

// GetByEmail implements user.Repository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

// GetByID implements user.Repository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) get(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, password_hash, is_admin, employee_id, created_at, updated_at
		FROM users
	` + where

	var u user.User
	err := q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.EmployeeID, &u.CreatedAt, &u.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}
