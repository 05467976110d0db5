// Package store provides the booking and catalog storage backends.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/chargeplan/core/model"
)

// MemoryStore keeps the catalog and bookings in process memory. It is the
// default backend and the fake used throughout the tests. The mutex
// serializes the check-and-insert so two overlapping commits cannot both
// succeed.
type MemoryStore struct {
	mu       sync.Mutex
	stations map[string]model.Station
	chargers map[string]model.Charger
	order    []string // charger insertion order
	bookings []model.Booking
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stations: make(map[string]model.Station),
		chargers: make(map[string]model.Charger),
	}
}

// AddStation registers a station.
func (s *MemoryStore) AddStation(st model.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations[st.ID] = st
}

// AddCharger registers a charger.
func (s *MemoryStore) AddCharger(c model.Charger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chargers[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.chargers[c.ID] = c
}

// ListStations returns all stations.
func (s *MemoryStore) ListStations(_ context.Context) ([]model.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Station, 0, len(s.stations))
	for _, st := range s.stations {
		out = append(out, st)
	}
	return out, nil
}

// ListChargers returns the chargers of one station in insertion order.
func (s *MemoryStore) ListChargers(_ context.Context, stationID string) ([]model.Charger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Charger
	for _, id := range s.order {
		if c := s.chargers[id]; c.StationID == stationID {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetCharger returns one charger by id.
func (s *MemoryStore) GetCharger(_ context.Context, chargerID string) (model.Charger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chargers[chargerID]
	if !ok {
		return model.Charger{}, ErrNotFound
	}
	return c, nil
}

// ListBookings returns the confirmed windows of a charger for a date.
func (s *MemoryStore) ListBookings(_ context.Context, chargerID string, date time.Time) ([]model.TimeWindow, error) {
	day := model.Day(date)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TimeWindow
	for _, b := range s.bookings {
		if b.ChargerID == chargerID && b.Date.Equal(day) && b.Status == model.StatusConfirmed {
			out = append(out, b.Window)
		}
	}
	return out, nil
}

// InsertBooking performs the overlap check and the append under one lock.
func (s *MemoryStore) InsertBooking(_ context.Context, b model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.ChargerID == b.ChargerID && existing.Date.Equal(b.Date) &&
			existing.Status == model.StatusConfirmed && existing.Window.Overlaps(b.Window) {
			return model.ConflictError{ChargerID: b.ChargerID, Date: b.Date, Window: b.Window}
		}
	}
	s.bookings = append(s.bookings, b)
	return nil
}

// Close implements the backend interface; nothing to release.
func (s *MemoryStore) Close() error { return nil }
