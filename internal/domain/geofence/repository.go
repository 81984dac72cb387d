package geofence

import (
	"context"
)

// Repository defines data access for geofences.
type Repository interface {
	// Create creates a new geofence
	Create(ctx context.Context, fence Geofence) (Geofence, error)

	// GetByID retrieves a geofence by id; ErrGeofenceNotFound when missing
	GetByID(ctx context.Context, id string) (Geofence, error)

	// List retrieves all geofences ordered by name
	List(ctx context.Context) ([]Geofence, error)

	// ListActive retrieves active geofences in ascending id order. The
	// order is load-bearing: containment resolution returns the first
	// match, so it must be stable across calls.
	ListActive(ctx context.Context) ([]Geofence, error)

	// Update updates an existing geofence
	Update(ctx context.Context, fence Geofence) error

	// Delete removes a geofence
	Delete(ctx context.Context, id string) error
}
