package model

import "math"

// Coordinate is an immutable WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within the usual bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Equal reports whether both axes match within tolDeg degrees.
func (c Coordinate) Equal(other Coordinate, tolDeg float64) bool {
	return math.Abs(c.Lat-other.Lat) < tolDeg && math.Abs(c.Lon-other.Lon) < tolDeg
}
