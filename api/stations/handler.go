package stations

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kilianp07/chargeplan/core/geo"
	"github.com/kilianp07/chargeplan/core/model"
	corestation "github.com/kilianp07/chargeplan/core/station"
)

// Lister provides the station catalog.
type Lister interface {
	ListStations(ctx context.Context) ([]model.Station, error)
}

// nearbyStation is a station annotated with its distance from the reference
// point.
type nearbyStation struct {
	model.Station
	DistanceKm float64 `json:"distance_km"`
}

// NewNearbyHandler returns an HTTP handler listing stations around a point
// via GET /api/stations/nearby.
func NewNearbyHandler(catalog Lister, defaultRadiusKm float64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if errLat != nil || errLon != nil {
			http.Error(w, "lat and lon are required", http.StatusBadRequest)
			return
		}
		ref := model.Coordinate{Lat: lat, Lon: lon}
		if !ref.Valid() {
			http.Error(w, "coordinate out of range", http.StatusBadRequest)
			return
		}
		radius := defaultRadiusKm
		if s := r.URL.Query().Get("radius_km"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 {
				http.Error(w, "radius_km must be a positive number", http.StatusBadRequest)
				return
			}
			radius = v
		}

		stations, err := catalog.ListStations(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		nearby := corestation.WithinRadius(ref, stations, radius)
		out := make([]nearbyStation, len(nearby))
		for i, s := range nearby {
			out[i] = nearbyStation{Station: s, DistanceKm: geo.DistanceKm(ref, s.Coord)}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
