package geofence

import "errors"

// Geofence domain errors
var (
	ErrGeofenceNotFound = errors.New("geofence not found")
	ErrNameExists       = errors.New("geofence name already exists")
)
