package geofence

import (
	"context"
)

// Resolver answers which geofence, if any, contains a point. It is the
// only geofence capability the tracking engine needs.
type Resolver interface {
	// Resolve returns the first active geofence containing the point in
	// ascending id order, or nil when none does.
	Resolve(ctx context.Context, latitude, longitude float64) (*Geofence, error)
}

// Service defines the admin-facing geofence operations plus resolution.
type Service interface {
	Resolver

	CreateGeofence(ctx context.Context, req CreateGeofenceRequest) (GeofenceResponse, error)
	GetGeofence(ctx context.Context, id string) (GeofenceResponse, error)
	ListGeofences(ctx context.Context) ([]GeofenceResponse, error)
	UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (GeofenceResponse, error)
	DeleteGeofence(ctx context.Context, id string) error
}
