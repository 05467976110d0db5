package station

import (
	"testing"

	"github.com/kilianp07/chargeplan/core/geo"
	"github.com/kilianp07/chargeplan/core/model"
)

func TestWithinRadiusFilters(t *testing.T) {
	ref := model.Coordinate{Lat: 27.7, Lon: 85.3}
	near := model.Station{ID: "s1", Coord: model.Coordinate{Lat: 27.71, Lon: 85.31}}
	far := model.Station{ID: "s2", Coord: model.Coordinate{Lat: 48.85, Lon: 2.35}}

	got := WithinRadius(ref, []model.Station{near, far}, 50)
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("got %v, want only s1", got)
	}
}

func TestWithinRadiusInclusiveBoundary(t *testing.T) {
	ref := model.Coordinate{Lat: 27.7, Lon: 85.3}
	s := model.Station{ID: "s1", Coord: model.Coordinate{Lat: 29.0, Lon: 86.5}}
	// Use the actual distance as the radius so the station sits exactly on
	// the boundary.
	radius := geo.DistanceKm(ref, s.Coord)

	got := WithinRadius(ref, []model.Station{s}, radius)
	if len(got) != 1 {
		t.Fatal("station at exactly the radius must be included")
	}
}

func TestWithinRadiusPreservesOrder(t *testing.T) {
	ref := model.Coordinate{Lat: 0, Lon: 0}
	stations := []model.Station{
		{ID: "b", Coord: model.Coordinate{Lat: 0.2, Lon: 0}},
		{ID: "a", Coord: model.Coordinate{Lat: 0.1, Lon: 0}},
		{ID: "c", Coord: model.Coordinate{Lat: 0.3, Lon: 0}},
	}
	got := WithinRadius(ref, stations, 100)
	if len(got) != 3 {
		t.Fatalf("expected all stations, got %d", len(got))
	}
	for i, want := range []string{"b", "a", "c"} {
		if got[i].ID != want {
			t.Fatalf("order not preserved: %v", got)
		}
	}
}

func TestWithinRadiusEmpty(t *testing.T) {
	if got := WithinRadius(model.Coordinate{}, nil, 10); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
