// Package station filters charging stations by distance.
package station

import (
	"github.com/kilianp07/chargeplan/core/geo"
	"github.com/kilianp07/chargeplan/core/model"
)

// WithinRadius returns the stations at most radiusKm kilometers from ref,
// inclusive at exactly radiusKm. Input order is preserved.
func WithinRadius(ref model.Coordinate, stations []model.Station, radiusKm float64) []model.Station {
	nearby := make([]model.Station, 0, len(stations))
	for _, s := range stations {
		if geo.DistanceKm(ref, s.Coord) <= radiusKm {
			nearby = append(nearby, s)
		}
	}
	return nearby
}
