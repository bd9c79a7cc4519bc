package geo

import (
	"github.com/golang/geo/s2"

	"github.com/hmorales/fleet-visits/internal/model"
)

// EarthRadiusMeters is Earth's mean radius.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// lat/lng pairs given in degrees.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PathLength returns the summed great-circle length in meters of
// consecutive points along a route.
func PathLength(path []model.LatLng) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1].Lat, path[i-1].Lng, path[i].Lat, path[i].Lng)
	}
	return total
}
