package trips

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/trip"
)

// planPayload is the request body of POST /api/trips/plan.
type planPayload struct {
	Start        model.Coordinate `json:"start"`
	End          model.Coordinate `json:"end"`
	RemainingKWh float64          `json:"remaining_kwh"`
}

// NewPlanHandler returns an HTTP handler computing trip plans via
// POST /api/trips/plan.
func NewPlanHandler(planner *trip.Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var p planPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		plan, err := planner.Plan(r.Context(), trip.RangeQuery{
			Start:        p.Start,
			End:          p.End,
			RemainingKWh: p.RemainingKWh,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(plan); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	var (
		valErr model.ValidationError
		upErr  model.UpstreamServiceError
	)
	switch {
	case errors.As(err, &valErr):
		http.Error(w, valErr.Error(), http.StatusBadRequest)
	case errors.As(err, &upErr):
		http.Error(w, upErr.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
