package model

// SegmentColor classifies a route segment by reachability.
type SegmentColor string

const (
	// SegmentGreen marks the comfortably reachable part of the route.
	SegmentGreen SegmentColor = "green"
	// SegmentOrange marks the marginal part.
	SegmentOrange SegmentColor = "orange"
	// SegmentRed marks the critical part.
	SegmentRed SegmentColor = "red"
)

// RouteSegment is a contiguous run of route coordinates sharing one color.
// Adjacent segments share their boundary coordinate so the polyline renders
// continuously. Derived data, never persisted.
type RouteSegment struct {
	Points []Coordinate `json:"points"`
	Color  SegmentColor `json:"color"`
}

// RoutePlan is the validated result of a range calculation: the route
// polyline plus the optional zone transition breakpoints.
type RoutePlan struct {
	Route      []Coordinate `json:"route"`
	GreenZone  *Coordinate  `json:"green_zone,omitempty"`
	OrangeZone *Coordinate  `json:"orange_zone,omitempty"`
	RedZone    *Coordinate  `json:"red_zone,omitempty"`
}
