// Package events defines the booking related events emitted on the event bus.
//
// Available event types:
//   - BookingConfirmed: a reservation was committed
//   - BookingConflict: a commit lost the race for a slot
//   - TripPlanned: a route was segmented and stations suggested
package events

import (
	"time"

	"github.com/kilianp07/chargeplan/core/model"
)

// BookingConfirmed is published after a booking is persisted.
type BookingConfirmed struct {
	Booking model.Booking
}

// BookingConflict is published when a commit collides with an existing
// reservation.
type BookingConflict struct {
	ChargerID string
	StationID string
	Date      time.Time
	Window    model.TimeWindow
}

// TripPlanned is published after a trip plan is produced.
type TripPlanned struct {
	Segments     int
	Stations     int
	RoutePoints  int
	RemainingKWh float64
}
