package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/chargeplan/core/availability"
	"github.com/kilianp07/chargeplan/core/booking"
	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/core/model"
)

const dateLayout = "2006-01-02"

// ChargerLister provides the charger catalog of one station.
type ChargerLister interface {
	ListChargers(ctx context.Context, stationID string) ([]model.Charger, error)
}

// NewAvailabilityHandler returns an HTTP handler listing free chargers via
// GET /api/availability. A nil recorder disables availability metrics.
func NewAvailabilityHandler(filter *availability.Filter, catalog ChargerLister, recorder coremetrics.AvailabilityRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		stationID := r.URL.Query().Get("station_id")
		if stationID == "" {
			http.Error(w, "station_id is required", http.StatusBadRequest)
			return
		}
		date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
		if err != nil {
			http.Error(w, "date must be formatted as "+dateLayout, http.StatusBadRequest)
			return
		}
		window, err := parseWindow(r.URL.Query().Get("start"), r.URL.Query().Get("duration_hours"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		chargers, err := catalog.ListChargers(r.Context(), stationID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		free, err := filter.Available(r.Context(), chargers, date, window)
		if err != nil {
			writeError(w, err)
			return
		}
		if recorder != nil {
			_ = recorder.RecordAvailability([]coremetrics.AvailabilityRecord{{
				StationID: stationID,
				Requested: len(chargers),
				Available: len(free),
				Time:      time.Now(),
			}})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(free); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// bookingPayload is the request body of POST /api/bookings.
type bookingPayload struct {
	UserID        string  `json:"user_id"`
	StationID     string  `json:"station_id"`
	ChargerID     string  `json:"charger_id"`
	Date          string  `json:"date"`
	Start         string  `json:"start"`
	DurationHours float64 `json:"duration_hours"`
	EnergyKWh     float64 `json:"energy_kwh"`
}

// NewBookingHandler returns an HTTP handler committing bookings via
// POST /api/bookings.
func NewBookingHandler(committer *booking.Committer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var p bookingPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		date, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			http.Error(w, "date must be formatted as "+dateLayout, http.StatusBadRequest)
			return
		}
		window, err := parseWindowValue(p.Start, p.DurationHours)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		b, err := committer.Commit(r.Context(), model.BookingRequest{
			UserID:    p.UserID,
			StationID: p.StationID,
			ChargerID: p.ChargerID,
			Date:      date,
			Window:    window,
			EnergyKWh: p.EnergyKWh,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(b); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func parseWindow(start, duration string) (model.TimeWindow, error) {
	hours, err := strconv.ParseFloat(duration, 64)
	if err != nil {
		return model.TimeWindow{}, model.ValidationError{Reason: "duration_hours must be a number"}
	}
	return parseWindowValue(start, hours)
}

func parseWindowValue(start string, hours float64) (model.TimeWindow, error) {
	clock, err := model.ParseClock(start)
	if err != nil {
		return model.TimeWindow{}, err
	}
	return model.NewWindow(clock, hours)
}

func writeError(w http.ResponseWriter, err error) {
	var (
		valErr  model.ValidationError
		cfltErr model.ConflictError
		upErr   model.UpstreamServiceError
	)
	switch {
	case errors.As(err, &valErr):
		http.Error(w, valErr.Error(), http.StatusBadRequest)
	case errors.As(err, &cfltErr):
		http.Error(w, cfltErr.Error(), http.StatusConflict)
	case errors.As(err, &upErr):
		http.Error(w, upErr.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
