// Package geo provides great-circle math on a spherical Earth.
package geo

import (
	"math"

	"github.com/kilianp07/chargeplan/core/model"
)

// EarthRadiusKm is the mean Earth radius used for all distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two
// coordinates in kilometers. The atan2(sqrt(h), sqrt(1-h)) form is used so
// identical and near-antipodal points stay finite: at h=0 it yields exactly 0
// where the naive sqrt(1/h) form divides by zero.
func DistanceKm(a, b model.Coordinate) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
