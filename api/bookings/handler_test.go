package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargeplan/core/availability"
	"github.com/kilianp07/chargeplan/core/booking"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/infra/store"
)

func seededStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.AddStation(model.Station{ID: "s1", Location: "Paris"})
	st.AddCharger(model.Charger{ID: "c1", StationID: "s1", Type: "DC", PowerKW: 50, PricePerKWh: 0.4})
	st.AddCharger(model.Charger{ID: "c2", StationID: "s1", Type: "AC", PowerKW: 22, PricePerKWh: 0.3})
	return st
}

func postBooking(t *testing.T, h http.Handler, p bookingPayload) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(p)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body)))
	return rec
}

func TestBookingHandlerCreates(t *testing.T) {
	st := seededStore()
	h := NewBookingHandler(booking.New(st, st, nil, logger.NopLogger{}))

	rec := postBooking(t, h, bookingPayload{
		UserID: "u1", StationID: "s1", ChargerID: "c1",
		Date: "2026-09-01", Start: "10:00", DurationHours: 2, EnergyKWh: 20,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var b model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Equal(t, model.PaymentPending, b.PaymentStatus)
	assert.InDelta(t, 8.0, b.Price, 1e-9)
}

func TestBookingHandlerConflict(t *testing.T) {
	st := seededStore()
	h := NewBookingHandler(booking.New(st, st, nil, logger.NopLogger{}))

	p := bookingPayload{
		UserID: "u1", StationID: "s1", ChargerID: "c1",
		Date: "2026-09-01", Start: "10:00", DurationHours: 2, EnergyKWh: 20,
	}
	require.Equal(t, http.StatusCreated, postBooking(t, h, p).Code)

	p.UserID = "u2"
	p.Start = "11:00"
	assert.Equal(t, http.StatusConflict, postBooking(t, h, p).Code)
}

func TestBookingHandlerBadRequest(t *testing.T) {
	st := seededStore()
	h := NewBookingHandler(booking.New(st, st, nil, logger.NopLogger{}))

	cases := map[string]bookingPayload{
		"unknown charger": {UserID: "u1", StationID: "s1", ChargerID: "nope", Date: "2026-09-01", Start: "10:00", DurationHours: 2, EnergyKWh: 20},
		"bad date":        {UserID: "u1", StationID: "s1", ChargerID: "c1", Date: "01/09/2026", Start: "10:00", DurationHours: 2, EnergyKWh: 20},
		"bad start":       {UserID: "u1", StationID: "s1", ChargerID: "c1", Date: "2026-09-01", Start: "25:00", DurationHours: 2, EnergyKWh: 20},
		"zero duration":   {UserID: "u1", StationID: "s1", ChargerID: "c1", Date: "2026-09-01", Start: "10:00", EnergyKWh: 20},
		"missing user":    {StationID: "s1", ChargerID: "c1", Date: "2026-09-01", Start: "10:00", DurationHours: 2, EnergyKWh: 20},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, postBooking(t, h, p).Code)
		})
	}
}

func TestAvailabilityHandler(t *testing.T) {
	st := seededStore()
	committer := booking.New(st, st, nil, logger.NopLogger{})
	rec := postBooking(t, NewBookingHandler(committer), bookingPayload{
		UserID: "u1", StationID: "s1", ChargerID: "c1",
		Date: "2026-09-01", Start: "10:00", DurationHours: 2, EnergyKWh: 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	h := NewAvailabilityHandler(availability.New(st, logger.NopLogger{}), st, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/availability?station_id=s1&date=2026-09-01&start=11:00&duration_hours=1", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	var free []model.Charger
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &free))
	require.Len(t, free, 1)
	assert.Equal(t, "c2", free[0].ID)
}

func TestAvailabilityHandlerBadQuery(t *testing.T) {
	st := seededStore()
	h := NewAvailabilityHandler(availability.New(st, logger.NopLogger{}), st, nil)

	cases := map[string]string{
		"missing station": "/api/availability?date=2026-09-01&start=10:00&duration_hours=1",
		"bad date":        "/api/availability?station_id=s1&date=tomorrow&start=10:00&duration_hours=1",
		"bad duration":    "/api/availability?station_id=s1&date=2026-09-01&start=10:00&duration_hours=abc",
		"cross midnight":  "/api/availability?station_id=s1&date=2026-09-01&start=23:00&duration_hours=2",
	}
	for name, url := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
