package geofence

import (
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/pkg/geo"
)

// Geofence is a circular on-site boundary: center plus radius in meters.
type Geofence struct {
	ID              string
	Name            string
	Description     string
	CenterLatitude  float64
	CenterLongitude float64
	RadiusMeters    float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ContainsPoint reports whether the point lies within the fence radius.
func (g Geofence) ContainsPoint(latitude, longitude float64) bool {
	return geo.DistanceMeters(g.CenterLatitude, g.CenterLongitude, latitude, longitude) <= g.RadiusMeters
}
