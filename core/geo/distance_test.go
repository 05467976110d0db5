package geo

import (
	"math"
	"testing"

	"github.com/kilianp07/chargeplan/core/model"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	pts := []model.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 27.69161, Lon: 85.2743222},
		{Lat: -89.9, Lon: 179.9},
	}
	for _, p := range pts {
		d := DistanceKm(p, p)
		if d != 0 {
			t.Fatalf("distance(%v, %v) = %v, want 0", p, p, d)
		}
		if math.IsNaN(d) {
			t.Fatalf("distance(%v, %v) is NaN", p, p)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := model.Coordinate{Lat: 27.69161, Lon: 85.2743222}
	b := model.Coordinate{Lat: 27.4376028, Lon: 85.7874298}
	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); d1 != d2 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to London, roughly 344 km.
	paris := model.Coordinate{Lat: 48.8566, Lon: 2.3522}
	london := model.Coordinate{Lat: 51.5074, Lon: -0.1278}
	d := DistanceKm(paris, london)
	if d < 330 || d > 355 {
		t.Fatalf("unexpected Paris-London distance: %v", d)
	}
}

func TestDistanceAntipodal(t *testing.T) {
	a := model.Coordinate{Lat: 0, Lon: 0}
	b := model.Coordinate{Lat: 0, Lon: 180}
	d := DistanceKm(a, b)
	if math.IsNaN(d) {
		t.Fatal("antipodal distance is NaN")
	}
	// Half the Earth's circumference.
	want := math.Pi * EarthRadiusKm
	if math.Abs(d-want) > 1 {
		t.Fatalf("antipodal distance %v, want ~%v", d, want)
	}
}
