package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type trackingRepository struct {
	db *database.DB
}

// AppendSample implements tracking.Repository.
func (r *trackingRepository) AppendSample(ctx context.Context, sample tracking.LocationSample) (tracking.LocationSample, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO location_samples (
			employee_id, latitude, longitude, accuracy, speed, heading, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id
	`

	err := q.QueryRow(ctx, query,
		sample.EmployeeID,
		sample.Latitude,
		sample.Longitude,
		sample.Accuracy,
		sample.Speed,
		sample.Heading,
		sample.Timestamp,
	).Scan(&sample.ID)

	if err != nil {
		return tracking.LocationSample{}, fmt.Errorf("failed to append location sample: %w", err)
	}

	return sample, nil
}

// AppendCheckEvent implements tracking.Repository. The partial unique index
// on (employee_id, kind, day_local) backs the once-per-day guard; a
// violation maps to the matching business error.
func (r *trackingRepository) AppendCheckEvent(ctx context.Context, event tracking.CheckEvent) (tracking.CheckEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO check_events (
			employee_id, latitude, longitude, kind, within_geofence, notes, day_local, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id
	`

	err := q.QueryRow(ctx, query,
		event.EmployeeID,
		event.Latitude,
		event.Longitude,
		event.Kind,
		event.WithinGeofence,
		event.Notes,
		event.DayLocal,
		event.Timestamp,
	).Scan(&event.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			if event.Kind == tracking.CheckKindOut {
				return tracking.CheckEvent{}, tracking.ErrAlreadyCheckedOut
			}
			return tracking.CheckEvent{}, tracking.ErrAlreadyCheckedIn
		}
		return tracking.CheckEvent{}, fmt.Errorf("failed to append check event: %w", err)
	}

	return event, nil
}

// GetCheckEventOn implements tracking.Repository.
func (r *trackingRepository) GetCheckEventOn(ctx context.Context, employeeID string, kind tracking.CheckKind, dayLocal string) (*tracking.CheckEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, latitude, longitude, kind, within_geofence, notes, day_local, recorded_at
		FROM check_events
		WHERE employee_id = $1
		  AND kind = $2
		  AND day_local = $3
		LIMIT 1
	`

	var event tracking.CheckEvent
	err := q.QueryRow(ctx, query, employeeID, kind, dayLocal).Scan(
		&event.ID, &event.EmployeeID, &event.Latitude, &event.Longitude,
		&event.Kind, &event.WithinGeofence, &event.Notes, &event.DayLocal, &event.Timestamp,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get check event: %w", err)
	}

	return &event, nil
}

// GetStatus implements tracking.Repository.
func (r *trackingRepository) GetStatus(ctx context.Context, employeeID string) (tracking.EmployeeStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT es.employee_id, es.status, es.current_latitude, es.current_longitude,
			   es.last_update, es.last_check_in, es.last_check_out, es.current_geofence_id,
			   e.first_name || ' ' || e.last_name AS employee_name,
			   g.name AS geofence_name
		FROM employee_statuses es
		JOIN employees e ON e.id = es.employee_id
		LEFT JOIN geofences g ON g.id = es.current_geofence_id
		WHERE es.employee_id = $1
	`

	var status tracking.EmployeeStatus
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&status.EmployeeID, &status.Status, &status.CurrentLatitude, &status.CurrentLongitude,
		&status.LastUpdate, &status.LastCheckIn, &status.LastCheckOut, &status.CurrentGeofenceID,
		&status.EmployeeName, &status.GeofenceName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return tracking.EmployeeStatus{}, tracking.ErrStatusNotFound
		}
		return tracking.EmployeeStatus{}, fmt.Errorf("failed to get employee status: %w", err)
	}

	return status, nil
}

// UpsertStatus implements tracking.Repository.
func (r *trackingRepository) UpsertStatus(ctx context.Context, status tracking.EmployeeStatus) (tracking.EmployeeStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_statuses (
			employee_id, status, current_latitude, current_longitude,
			last_update, last_check_in, last_check_out, current_geofence_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id) DO UPDATE SET
			status = EXCLUDED.status,
			current_latitude = EXCLUDED.current_latitude,
			current_longitude = EXCLUDED.current_longitude,
			last_update = EXCLUDED.last_update,
			last_check_in = EXCLUDED.last_check_in,
			last_check_out = EXCLUDED.last_check_out,
			current_geofence_id = EXCLUDED.current_geofence_id
	`

	_, err := q.Exec(ctx, query,
		status.EmployeeID,
		status.Status,
		status.CurrentLatitude,
		status.CurrentLongitude,
		status.LastUpdate,
		status.LastCheckIn,
		status.LastCheckOut,
		status.CurrentGeofenceID,
	)

	if err != nil {
		return tracking.EmployeeStatus{}, fmt.Errorf("failed to upsert employee status: %w", err)
	}

	return status, nil
}

// ListStatuses implements tracking.Repository. The online-only cutoff is
// applied in the service, not here, so the window arithmetic lives in one
// place.
func (r *trackingRepository) ListStatuses(ctx context.Context, filter tracking.StatusFilter) ([]tracking.EmployeeStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT es.employee_id, es.status, es.current_latitude, es.current_longitude,
			   es.last_update, es.last_check_in, es.last_check_out, es.current_geofence_id,
			   e.first_name || ' ' || e.last_name AS employee_name,
			   g.name AS geofence_name
		FROM employee_statuses es
		JOIN employees e ON e.id = es.employee_id
		LEFT JOIN geofences g ON g.id = es.current_geofence_id
	`

	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE es.status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY employee_name ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee statuses: %w", err)
	}
	defer rows.Close()

	return scanStatusRows(rows)
}

// ListStatusesInGeofence implements tracking.Repository.
func (r *trackingRepository) ListStatusesInGeofence(ctx context.Context, geofenceID string) ([]tracking.EmployeeStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT es.employee_id, es.status, es.current_latitude, es.current_longitude,
			   es.last_update, es.last_check_in, es.last_check_out, es.current_geofence_id,
			   e.first_name || ' ' || e.last_name AS employee_name,
			   g.name AS geofence_name
		FROM employee_statuses es
		JOIN employees e ON e.id = es.employee_id
		JOIN geofences g ON g.id = es.current_geofence_id
		WHERE es.current_geofence_id = $1
		ORDER BY employee_name ASC
	`

	rows, err := q.Query(ctx, query, geofenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses in geofence: %w", err)
	}
	defer rows.Close()

	return scanStatusRows(rows)
}

func scanStatusRows(rows pgx.Rows) ([]tracking.EmployeeStatus, error) {
	var statuses []tracking.EmployeeStatus
	for rows.Next() {
		var status tracking.EmployeeStatus
		err := rows.Scan(
			&status.EmployeeID, &status.Status, &status.CurrentLatitude, &status.CurrentLongitude,
			&status.LastUpdate, &status.LastCheckIn, &status.LastCheckOut, &status.CurrentGeofenceID,
			&status.EmployeeName, &status.GeofenceName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee status: %w", err)
		}
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee statuses: %w", err)
	}

	return statuses, nil
}

// ListCheckEventsOn implements tracking.Repository.
func (r *trackingRepository) ListCheckEventsOn(ctx context.Context, dayLocal string, kind tracking.CheckKind) ([]tracking.CheckEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ce.id, ce.employee_id, ce.latitude, ce.longitude, ce.kind,
			   ce.within_geofence, ce.notes, ce.day_local, ce.recorded_at,
			   e.first_name || ' ' || e.last_name AS employee_name
		FROM check_events ce
		JOIN employees e ON e.id = ce.employee_id
		WHERE ce.day_local = $1
		  AND ce.kind = $2
		ORDER BY ce.recorded_at DESC
	`

	rows, err := q.Query(ctx, query, dayLocal, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list check events: %w", err)
	}
	defer rows.Close()

	var events []tracking.CheckEvent
	for rows.Next() {
		var event tracking.CheckEvent
		err := rows.Scan(
			&event.ID, &event.EmployeeID, &event.Latitude, &event.Longitude, &event.Kind,
			&event.WithinGeofence, &event.Notes, &event.DayLocal, &event.Timestamp,
			&event.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check events: %w", err)
	}

	return events, nil
}

// CountCheckEvents implements tracking.Repository.
func (r *trackingRepository) CountCheckEvents(ctx context.Context, fromDay, toDay string, kind tracking.CheckKind) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM check_events
		WHERE day_local >= $1
		  AND day_local <= $2
		  AND kind = $3
	`

	var count int64
	if err := q.QueryRow(ctx, query, fromDay, toDay, kind).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count check events: %w", err)
	}

	return count, nil
}

// CountByStatus implements tracking.Repository.
func (r *trackingRepository) CountByStatus(ctx context.Context) (map[tracking.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM employee_statuses
		GROUP BY status
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[tracking.Status]int64)
	for rows.Next() {
		var status tracking.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}

// ListSamples implements tracking.Repository.
func (r *trackingRepository) ListSamples(ctx context.Context, employeeID string, limit int) ([]tracking.LocationSample, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, latitude, longitude, accuracy, speed, heading, recorded_at
		FROM location_samples
		WHERE employee_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list location samples: %w", err)
	}
	defer rows.Close()

	var samples []tracking.LocationSample
	for rows.Next() {
		var sample tracking.LocationSample
		err := rows.Scan(
			&sample.ID, &sample.EmployeeID, &sample.Latitude, &sample.Longitude,
			&sample.Accuracy, &sample.Speed, &sample.Heading, &sample.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location sample: %w", err)
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location samples: %w", err)
	}

	return samples, nil
}

func NewTrackingRepository(db *database.DB) tracking.Repository {
	return &trackingRepository{db: db}
}
