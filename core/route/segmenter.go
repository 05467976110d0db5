// Package route splits a route polyline into colored reachability segments.
package route

import "github.com/kilianp07/chargeplan/core/model"

// matchTolDeg is the per-axis tolerance used to locate a breakpoint on the
// route. The breakpoints and the polyline may come from slightly different
// computations and not align exactly.
const matchTolDeg = 1e-6

// Proportional fallback positions used when a supplied breakpoint matches no
// route coordinate.
const (
	greenFallback  = 0.3
	orangeFallback = 0.6
	redFallback    = 0.9
)

// Breakpoints carries the optional zone transition coordinates.
type Breakpoints struct {
	Green  *model.Coordinate
	Orange *model.Coordinate
	Red    *model.Coordinate
}

// FromPlan extracts the breakpoints of a route plan.
func FromPlan(p model.RoutePlan) Breakpoints {
	return Breakpoints{Green: p.GreenZone, Orange: p.OrangeZone, Red: p.RedZone}
}

// Segment maps the route polyline into ordered green/orange/red segments.
// Adjacent segments share their boundary coordinate. The red segment always
// runs from the last defined boundary to the end of the route; green and
// orange segments are emitted only when their breakpoint is supplied. An
// empty route yields an empty result.
func Segment(points []model.Coordinate, bp Breakpoints) []model.RouteSegment {
	if len(points) == 0 {
		return nil
	}

	gi := boundaryIndex(points, bp.Green, greenFallback)
	oi := boundaryIndex(points, bp.Orange, orangeFallback)
	// Boundaries must not run backwards; a later zone starting before an
	// earlier one collapses to the earlier boundary.
	if gi >= 0 && oi >= 0 && oi < gi {
		oi = gi
	}

	var segments []model.RouteSegment
	if gi >= 0 {
		segments = append(segments, model.RouteSegment{
			Points: points[:gi+1],
			Color:  model.SegmentGreen,
		})
	}
	if oi >= 0 {
		start := 0
		if gi >= 0 {
			start = gi
		}
		segments = append(segments, model.RouteSegment{
			Points: points[start : oi+1],
			Color:  model.SegmentOrange,
		})
	}
	redStart := 0
	if oi >= 0 {
		redStart = oi
	} else if gi >= 0 {
		redStart = gi
	}
	segments = append(segments, model.RouteSegment{
		Points: points[redStart:],
		Color:  model.SegmentRed,
	})
	return segments
}

// boundaryIndex locates target on the route, falling back to a proportional
// index when the breakpoint is supplied but matches nothing. Returns -1 when
// no breakpoint is supplied.
func boundaryIndex(points []model.Coordinate, target *model.Coordinate, fallback float64) int {
	if target == nil {
		return -1
	}
	for i, p := range points {
		if p.Equal(*target, matchTolDeg) {
			return i
		}
	}
	idx := int(float64(len(points)) * fallback)
	if idx >= len(points) {
		idx = len(points) - 1
	}
	return idx
}
