package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type employeeRepository struct {
	db *database.DB
}

const employeeColumns = `
	e.id, e.employee_code, e.first_name, e.last_name, e.email, e.phone_number,
	e.department_id, e.position_id, e.employment_status, e.employment_type,
	e.hire_date, e.termination_date, e.created_at, e.updated_at,
	d.name AS department_name, p.title AS position_title
`

const employeeJoins = `
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN positions p ON p.id = e.position_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Email, &emp.PhoneNumber,
		&emp.DepartmentID, &emp.PositionID, &emp.EmploymentStatus, &emp.EmploymentType,
		&emp.HireDate, &emp.TerminationDate, &emp.CreatedAt, &emp.UpdatedAt,
		&emp.DepartmentName, &emp.PositionTitle,
	)
	return emp, err
}

// Create implements employee.Repository.
func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			employee_code, first_name, last_name, email, phone_number,
			department_id, position_id, employment_status, employment_type, hire_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.EmployeeCode,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.PhoneNumber,
		emp.DepartmentID,
		emp.PositionID,
		emp.EmploymentStatus,
		emp.EmploymentType,
		emp.HireDate,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return employee.Employee{}, employee.ErrEmailExists
			}
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + employeeJoins + ` WHERE e.id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// List implements employee.Repository.
func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argPos))
		args = append(args, *filter.DepartmentID)
		argPos++
	}
	if filter.PositionID != nil {
		conditions = append(conditions, fmt.Sprintf("e.position_id = $%d", argPos))
		args = append(args, *filter.PositionID)
		argPos++
	}
	if filter.EmploymentStatus != nil {
		conditions = append(conditions, fmt.Sprintf("e.employment_status = $%d", argPos))
		args = append(args, *filter.EmploymentStatus)
		argPos++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.employee_code ILIKE $%d OR e.email ILIKE $%d)",
			argPos, argPos, argPos, argPos,
		))
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) ` + employeeJoins + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	listQuery := `SELECT ` + employeeColumns + employeeJoins + where +
		fmt.Sprintf(" ORDER BY e.first_name ASC, e.last_name ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}

// Update implements employee.Repository.
func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET first_name = $2,
			last_name = $3,
			email = $4,
			phone_number = $5,
			department_id = $6,
			position_id = $7,
			employment_status = $8,
			employment_type = $9,
			termination_date = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		emp.ID,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.PhoneNumber,
		emp.DepartmentID,
		emp.PositionID,
		emp.EmploymentStatus,
		emp.EmploymentType,
		emp.TerminationDate,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return employee.ErrEmailExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// Count implements employee.Repository.
func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

// SearchByName implements employee.Repository. Exact full-name matches win
// over prefix and substring matches.
func (r *employeeRepository) SearchByName(ctx context.Context, name string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + employeeJoins + `
		WHERE e.first_name || ' ' || e.last_name ILIKE $1
		   OR e.first_name ILIKE $1
		   OR e.last_name ILIKE $1
		ORDER BY
			CASE WHEN LOWER(e.first_name || ' ' || e.last_name) = LOWER($2) THEN 0
			     WHEN e.first_name || ' ' || e.last_name ILIKE $3 THEN 1
			     ELSE 2 END,
			e.first_name ASC
		LIMIT 1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, "%"+name+"%", name, name+"%"))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search employee by name: %w", err)
	}

	return &emp, nil
}

// CreateDocument implements employee.Repository.
func (r *employeeRepository) CreateDocument(ctx context.Context, doc employee.Document) (employee.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_documents (
			employee_id, document_type, title, description, file_path
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id, uploaded_at
	`

	err := q.QueryRow(ctx, query,
		doc.EmployeeID,
		doc.DocumentType,
		doc.Title,
		doc.Description,
		doc.FilePath,
	).Scan(&doc.ID, &doc.UploadedAt)

	if err != nil {
		return employee.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

// ListDocuments implements employee.Repository.
func (r *employeeRepository) ListDocuments(ctx context.Context, employeeID string) ([]employee.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, document_type, title, description, file_path, uploaded_at
		FROM employee_documents
		WHERE employee_id = $1
		ORDER BY uploaded_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []employee.Document
	for rows.Next() {
		var doc employee.Document
		err := rows.Scan(
			&doc.ID, &doc.EmployeeID, &doc.DocumentType, &doc.Title,
			&doc.Description, &doc.FilePath, &doc.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// GetDocument implements employee.Repository.
func (r *employeeRepository) GetDocument(ctx context.Context, id string) (employee.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, document_type, title, description, file_path, uploaded_at
		FROM employee_documents
		WHERE id = $1
	`

	var doc employee.Document
	err := q.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.EmployeeID, &doc.DocumentType, &doc.Title,
		&doc.Description, &doc.FilePath, &doc.UploadedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Document{}, employee.ErrDocumentNotFound
		}
		return employee.Document{}, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// DeleteDocument implements employee.Repository.
func (r *employeeRepository) DeleteDocument(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return employee.ErrDocumentNotFound
	}

	return nil
}

// CreateNote implements employee.Repository.
func (r *employeeRepository) CreateNote(ctx context.Context, note employee.Note) (employee.Note, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_notes (
			employee_id, title, content, is_confidential
		) VALUES (
			$1, $2, $3, $4
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		note.EmployeeID,
		note.Title,
		note.Content,
		note.IsConfidential,
	).Scan(&note.ID, &note.CreatedAt)

	if err != nil {
		return employee.Note{}, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// ListNotes implements employee.Repository.
func (r *employeeRepository) ListNotes(ctx context.Context, employeeID string, includeConfidential bool) ([]employee.Note, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, title, content, is_confidential, created_at
		FROM employee_notes
		WHERE employee_id = $1
		  AND (is_confidential = FALSE OR $2)
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID, includeConfidential)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []employee.Note
	for rows.Next() {
		var note employee.Note
		err := rows.Scan(
			&note.ID, &note.EmployeeID, &note.Title, &note.Content,
			&note.IsConfidential, &note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

// DeleteNote implements employee.Repository.
func (r *employeeRepository) DeleteNote(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return employee.ErrNoteNotFound
	}

	return nil
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}
