package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/master"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type departmentRepository struct {
	db *database.DB
}

// Create implements master.DepartmentRepository.
func (r *departmentRepository) Create(ctx context.Context, dept master.Department) (master.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (name, description, manager_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, dept.Name, dept.Description, dept.ManagerID).
		Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return master.Department{}, master.ErrDepartmentNameExists
		}
		return master.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	return dept, nil
}

// GetByID implements master.DepartmentRepository.
func (r *departmentRepository) GetByID(ctx context.Context, id string) (master.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, manager_id, created_at, updated_at
		FROM departments
		WHERE id = $1
	`

	var dept master.Department
	err := q.QueryRow(ctx, query, id).Scan(
		&dept.ID, &dept.Name, &dept.Description, &dept.ManagerID, &dept.CreatedAt, &dept.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return master.Department{}, master.ErrDepartmentNotFound
		}
		return master.Department{}, fmt.Errorf("failed to get department: %w", err)
	}

	return dept, nil
}

// List implements master.DepartmentRepository.
func (r *departmentRepository) List(ctx context.Context) ([]master.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, manager_id, created_at, updated_at
		FROM departments
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var depts []master.Department
	for rows.Next() {
		var dept master.Department
		err := rows.Scan(
			&dept.ID, &dept.Name, &dept.Description, &dept.ManagerID, &dept.CreatedAt, &dept.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		depts = append(depts, dept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return depts, nil
}

// Update implements master.DepartmentRepository.
func (r *departmentRepository) Update(ctx context.Context, dept master.Department) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET name = $2, description = $3, manager_id = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, dept.ID, dept.Name, dept.Description, dept.ManagerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return master.ErrDepartmentNameExists
		}
		return fmt.Errorf("failed to update department: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return master.ErrDepartmentNotFound
	}

	return nil
}

// Delete implements master.DepartmentRepository.
func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return master.ErrDepartmentNotFound
	}

	return nil
}

func NewDepartmentRepository(db *database.DB) master.DepartmentRepository {
	return &departmentRepository{db: db}
}

type positionRepository struct {
	db *database.DB
}

// Create implements master.PositionRepository.
func (r *positionRepository) Create(ctx context.Context, pos master.Position) (master.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO positions (title, description, salary_min, salary_max)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, pos.Title, pos.Description, pos.SalaryMin, pos.SalaryMax).
		Scan(&pos.ID, &pos.CreatedAt, &pos.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return master.Position{}, master.ErrPositionTitleExists
		}
		return master.Position{}, fmt.Errorf("failed to create position: %w", err)
	}

	return pos, nil
}

// GetByID implements master.PositionRepository.
func (r *positionRepository) GetByID(ctx context.Context, id string) (master.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, description, salary_min, salary_max, created_at, updated_at
		FROM positions
		WHERE id = $1
	`

	var pos master.Position
	err := q.QueryRow(ctx, query, id).Scan(
		&pos.ID, &pos.Title, &pos.Description, &pos.SalaryMin, &pos.SalaryMax, &pos.CreatedAt, &pos.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return master.Position{}, master.ErrPositionNotFound
		}
		return master.Position{}, fmt.Errorf("failed to get position: %w", err)
	}

	return pos, nil
}

// List implements master.PositionRepository.
func (r *positionRepository) List(ctx context.Context) ([]master.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, description, salary_min, salary_max, created_at, updated_at
		FROM positions
		ORDER BY title ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []master.Position
	for rows.Next() {
		var pos master.Position
		err := rows.Scan(
			&pos.ID, &pos.Title, &pos.Description, &pos.SalaryMin, &pos.SalaryMax, &pos.CreatedAt, &pos.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}

	return positions, nil
}

// Update implements master.PositionRepository.
func (r *positionRepository) Update(ctx context.Context, pos master.Position) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE positions
		SET title = $2, description = $3, salary_min = $4, salary_max = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, pos.ID, pos.Title, pos.Description, pos.SalaryMin, pos.SalaryMax)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return master.ErrPositionTitleExists
		}
		return fmt.Errorf("failed to update position: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return master.ErrPositionNotFound
	}

	return nil
}

// Delete implements master.PositionRepository.
func (r *positionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return master.ErrPositionNotFound
	}

	return nil
}

func NewPositionRepository(db *database.DB) master.PositionRepository {
	return &positionRepository{db: db}
}
