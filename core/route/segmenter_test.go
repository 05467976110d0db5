package route

import (
	"testing"

	"github.com/kilianp07/chargeplan/core/model"
)

// line returns n points along a straight line, one per 0.01 degrees.
func line(n int) []model.Coordinate {
	pts := make([]model.Coordinate, n)
	for i := range pts {
		pts[i] = model.Coordinate{Lat: 27.0 + float64(i)*0.01, Lon: 85.0}
	}
	return pts
}

func TestSegmentEmptyRoute(t *testing.T) {
	if got := Segment(nil, Breakpoints{}); got != nil {
		t.Fatalf("empty route should yield nil, got %v", got)
	}
}

func TestSegmentNoBreakpoints(t *testing.T) {
	pts := line(5)
	got := Segment(pts, Breakpoints{})
	if len(got) != 1 {
		t.Fatalf("expected single segment, got %d", len(got))
	}
	if got[0].Color != model.SegmentRed || len(got[0].Points) != 5 {
		t.Fatalf("expected whole route red, got %+v", got[0])
	}
}

func TestSegmentSinglePointRoute(t *testing.T) {
	pts := line(1)
	got := Segment(pts, Breakpoints{})
	if len(got) != 1 || len(got[0].Points) != 1 {
		t.Fatalf("expected degenerate single-point segment, got %v", got)
	}
}

func TestSegmentGreenOnly(t *testing.T) {
	pts := line(10)
	bp := Breakpoints{Green: &pts[3]}
	got := Segment(pts, bp)
	if len(got) != 2 {
		t.Fatalf("expected green+red, got %d segments", len(got))
	}
	if got[0].Color != model.SegmentGreen || len(got[0].Points) != 4 {
		t.Fatalf("green segment wrong: %+v", got[0])
	}
	if got[1].Color != model.SegmentRed || len(got[1].Points) != 7 {
		t.Fatalf("red segment wrong: %+v", got[1])
	}
	// Shared boundary point.
	if got[0].Points[3] != got[1].Points[0] {
		t.Fatal("segments must share the boundary coordinate")
	}
}

func TestSegmentAllBreakpointsPartitionRoute(t *testing.T) {
	pts := line(20)
	bp := Breakpoints{Green: &pts[5], Orange: &pts[11], Red: &pts[17]}
	got := Segment(pts, bp)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	colors := []model.SegmentColor{model.SegmentGreen, model.SegmentOrange, model.SegmentRed}
	for i, c := range colors {
		if got[i].Color != c {
			t.Fatalf("segment %d color %s, want %s", i, got[i].Color, c)
		}
	}
	// Concatenating the segments, dropping the duplicated boundary points,
	// must reproduce the original route ordering exactly.
	var rebuilt []model.Coordinate
	rebuilt = append(rebuilt, got[0].Points...)
	rebuilt = append(rebuilt, got[1].Points[1:]...)
	rebuilt = append(rebuilt, got[2].Points[1:]...)
	if len(rebuilt) != len(pts) {
		t.Fatalf("rebuilt route has %d points, want %d", len(rebuilt), len(pts))
	}
	for i := range pts {
		if rebuilt[i] != pts[i] {
			t.Fatalf("point %d differs: %v vs %v", i, rebuilt[i], pts[i])
		}
	}
}

func TestSegmentFallbackIndices(t *testing.T) {
	pts := line(10)
	// Breakpoints far away from every route coordinate.
	g := model.Coordinate{Lat: 0, Lon: 0}
	o := model.Coordinate{Lat: 1, Lon: 1}
	r := model.Coordinate{Lat: 2, Lon: 2}
	got := Segment(pts, Breakpoints{Green: &g, Orange: &o, Red: &r})
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	// 30% of 10 -> index 3, 60% -> 6.
	if len(got[0].Points) != 4 {
		t.Fatalf("green fallback should end at index 3, got %d points", len(got[0].Points))
	}
	if len(got[1].Points) != 4 {
		t.Fatalf("orange fallback should span 3..6, got %d points", len(got[1].Points))
	}
	if len(got[2].Points) != 4 {
		t.Fatalf("red should span 6..9, got %d points", len(got[2].Points))
	}
}

func TestSegmentOrangeOnly(t *testing.T) {
	pts := line(10)
	bp := Breakpoints{Orange: &pts[6]}
	got := Segment(pts, bp)
	if len(got) != 2 {
		t.Fatalf("expected orange+red, got %d", len(got))
	}
	if got[0].Color != model.SegmentOrange || len(got[0].Points) != 7 {
		t.Fatalf("orange segment wrong: %+v", got[0])
	}
	if got[1].Color != model.SegmentRed || len(got[1].Points) != 4 {
		t.Fatalf("red segment wrong: %+v", got[1])
	}
}

func TestSegmentToleranceMatch(t *testing.T) {
	pts := line(10)
	// Within 1e-6 degrees of point 4 on both axes.
	near := model.Coordinate{Lat: pts[4].Lat + 5e-7, Lon: pts[4].Lon - 5e-7}
	got := Segment(pts, Breakpoints{Green: &near})
	if len(got[0].Points) != 5 {
		t.Fatalf("tolerance match failed: green has %d points", len(got[0].Points))
	}
}

func TestSegmentOutOfOrderBoundariesClamped(t *testing.T) {
	pts := line(10)
	bp := Breakpoints{Green: &pts[7], Orange: &pts[2]}
	got := Segment(pts, bp)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	// Orange collapses onto the green boundary.
	if len(got[1].Points) != 1 {
		t.Fatalf("collapsed orange should hold the boundary point only, got %d", len(got[1].Points))
	}
	if len(got[2].Points) != 3 {
		t.Fatalf("red should span 7..9, got %d points", len(got[2].Points))
	}
}
