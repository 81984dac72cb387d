package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/geofence"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type geofenceRepository struct {
	db *database.DB
}

// Create implements geofence.Repository.
func (r *geofenceRepository) Create(ctx context.Context, fence geofence.Geofence) (geofence.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO geofences (
			name, description, center_latitude, center_longitude, radius_meters, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		fence.Name,
		fence.Description,
		fence.CenterLatitude,
		fence.CenterLongitude,
		fence.RadiusMeters,
		fence.IsActive,
	).Scan(&fence.ID, &fence.CreatedAt, &fence.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return geofence.Geofence{}, geofence.ErrNameExists
		}
		return geofence.Geofence{}, fmt.Errorf("failed to create geofence: %w", err)
	}

	return fence, nil
}

// GetByID implements geofence.Repository.
func (r *geofenceRepository) GetByID(ctx context.Context, id string) (geofence.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, center_latitude, center_longitude,
			   radius_meters, is_active, created_at, updated_at
		FROM geofences
		WHERE id = $1
	`

	var fence geofence.Geofence
	err := q.QueryRow(ctx, query, id).Scan(
		&fence.ID, &fence.Name, &fence.Description, &fence.CenterLatitude, &fence.CenterLongitude,
		&fence.RadiusMeters, &fence.IsActive, &fence.CreatedAt, &fence.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return geofence.Geofence{}, geofence.ErrGeofenceNotFound
		}
		return geofence.Geofence{}, fmt.Errorf("failed to get geofence: %w", err)
	}

	return fence, nil
}

// List implements geofence.Repository.
func (r *geofenceRepository) List(ctx context.Context) ([]geofence.Geofence, error) {
	return r.list(ctx, `
		SELECT id, name, description, center_latitude, center_longitude,
			   radius_meters, is_active, created_at, updated_at
		FROM geofences
		ORDER BY name ASC
	`)
}

// ListActive implements geofence.Repository. Ascending id keeps the
// containment resolution order stable across calls.
func (r *geofenceRepository) ListActive(ctx context.Context) ([]geofence.Geofence, error) {
	return r.list(ctx, `
		SELECT id, name, description, center_latitude, center_longitude,
			   radius_meters, is_active, created_at, updated_at
		FROM geofences
		WHERE is_active = TRUE
		ORDER BY id ASC
	`)
}

func (r *geofenceRepository) list(ctx context.Context, query string) ([]geofence.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}
	defer rows.Close()

	var fences []geofence.Geofence
	for rows.Next() {
		var fence geofence.Geofence
		err := rows.Scan(
			&fence.ID, &fence.Name, &fence.Description, &fence.CenterLatitude, &fence.CenterLongitude,
			&fence.RadiusMeters, &fence.IsActive, &fence.CreatedAt, &fence.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence: %w", err)
		}
		fences = append(fences, fence)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate geofences: %w", err)
	}

	return fences, nil
}

// Update implements geofence.Repository.
func (r *geofenceRepository) Update(ctx context.Context, fence geofence.Geofence) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE geofences
		SET name = $2,
			description = $3,
			center_latitude = $4,
			center_longitude = $5,
			radius_meters = $6,
			is_active = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		fence.ID,
		fence.Name,
		fence.Description,
		fence.CenterLatitude,
		fence.CenterLongitude,
		fence.RadiusMeters,
		fence.IsActive,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return geofence.ErrNameExists
		}
		return fmt.Errorf("failed to update geofence: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return geofence.ErrGeofenceNotFound
	}

	return nil
}

// Delete implements geofence.Repository.
func (r *geofenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM geofences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete geofence: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return geofence.ErrGeofenceNotFound
	}

	return nil
}

func NewGeofenceRepository(db *database.DB) geofence.Repository {
	return &geofenceRepository{db: db}
}
