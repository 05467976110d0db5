// Package availability decides which chargers are free for a requested
// time window.
package availability

import (
	"context"
	"time"

	"github.com/kilianp07/chargeplan/core/logger"
	"github.com/kilianp07/chargeplan/core/model"
)

// BookingLookup fetches the existing reservation windows of one charger for a
// given date. Implemented by the booking store.
type BookingLookup interface {
	ListBookings(ctx context.Context, chargerID string, date time.Time) ([]model.TimeWindow, error)
}

// Filter narrows a charger set to those free in a requested window. The
// result reflects a snapshot of bookings at call time; the committer performs
// the authoritative re-check.
type Filter struct {
	lookup BookingLookup
	log    logger.Logger

	// Strict propagates lookup failures instead of excluding the charger.
	Strict bool
}

// New creates a Filter backed by the given lookup. A nil log disables logging.
func New(lookup BookingLookup, log logger.Logger) *Filter {
	return &Filter{lookup: lookup, log: log}
}

// Available returns the chargers whose existing bookings for date do not
// overlap the requested window, preserving input order. A charger whose
// bookings cannot be fetched is excluded (fail-closed) unless Strict is set,
// in which case the LookupError is returned.
func (f *Filter) Available(ctx context.Context, chargers []model.Charger, date time.Time, requested model.TimeWindow) ([]model.Charger, error) {
	if err := requested.Validate(); err != nil {
		return nil, err
	}
	day := model.Day(date)
	available := make([]model.Charger, 0, len(chargers))
	for _, c := range chargers {
		bookings, err := f.lookup.ListBookings(ctx, c.ID, day)
		if err != nil {
			lerr := model.LookupError{Op: "list bookings for charger " + c.ID, Err: err}
			if f.Strict {
				return nil, lerr
			}
			if f.log != nil {
				f.log.Warnf("excluding charger %s: %v", c.ID, lerr)
			}
			continue
		}
		if free(bookings, requested) {
			available = append(available, c)
		}
	}
	return available, nil
}

// free short-circuits on the first overlapping booking.
func free(bookings []model.TimeWindow, requested model.TimeWindow) bool {
	for _, b := range bookings {
		if requested.Overlaps(b) {
			return false
		}
	}
	return true
}
