package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters_Identity(t *testing.T) {
	cases := []struct {
		lat, lon float64
	}{
		{0, 0},
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}
	for _, c := range cases {
		if d := DistanceMeters(c.lat, c.lon, c.lat, c.lon); d != 0 {
			t.Errorf("DistanceMeters(%v,%v -> same point) = %v, want 0", c.lat, c.lon, d)
		}
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	cases := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{40.7128, -74.0060, 40.7589, -73.9851},
		{-6.2088, 106.8456, 1.3521, 103.8198},
		{51.5074, -0.1278, 48.8566, 2.3522},
	}
	for _, c := range cases {
		ab := DistanceMeters(c.lat1, c.lon1, c.lat2, c.lon2)
		ba := DistanceMeters(c.lat2, c.lon2, c.lat1, c.lon1)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: a->b=%v b->a=%v", ab, ba)
		}
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		// One degree of latitude along a meridian is ~111.2 km.
		{"one degree latitude", 0, 0, 1, 0, 111195, 50},
		// Times Square to Grand Central, ~1 km.
		{"midtown manhattan", 40.7580, -73.9855, 40.7527, -73.9772, 900, 100},
		// Within a 100m office geofence.
		{"short hop", 40.7128, -74.0060, 40.7133, -74.0060, 55.6, 1},
	}
	for _, c := range cases {
		got := DistanceMeters(c.lat1, c.lon1, c.lat2, c.lon2)
		if math.Abs(got-c.want) > c.tolerance {
			t.Errorf("%s: DistanceMeters = %v, want %v +/- %v", c.name, got, c.want, c.tolerance)
		}
	}
}
