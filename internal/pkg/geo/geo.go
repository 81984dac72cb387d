// Package geo provides the great-circle math used for geofence
// membership tests. Inputs are plain WGS84 degrees; range validation
// is the caller's responsibility.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000.0

// DistanceMeters returns the Haversine great-circle distance in meters
// between two latitude/longitude points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := radians(lat1)
	lat2Rad := radians(lat2)
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
