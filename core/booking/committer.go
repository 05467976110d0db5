// Package booking validates and commits charger reservations.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/chargeplan/core/events"
	"github.com/kilianp07/chargeplan/core/logger"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/internal/eventbus"
)

// Store persists bookings. InsertBooking must perform the overlap check and
// the insert as one serialized operation and return a model.ConflictError
// when an overlapping confirmed booking exists for the same charger and date.
type Store interface {
	ListBookings(ctx context.Context, chargerID string, date time.Time) ([]model.TimeWindow, error)
	InsertBooking(ctx context.Context, b model.Booking) error
}

// Catalog resolves charger identities and tariffs.
type Catalog interface {
	GetCharger(ctx context.Context, chargerID string) (model.Charger, error)
}

// Committer turns a validated BookingRequest into a confirmed Booking.
type Committer struct {
	store   Store
	catalog Catalog
	bus     eventbus.EventBus
	log     logger.Logger
}

// New creates a Committer. The bus is optional; when set, confirmed bookings
// and conflicts are published on it.
func New(store Store, catalog Catalog, bus eventbus.EventBus, log logger.Logger) *Committer {
	return &Committer{store: store, catalog: catalog, bus: bus, log: log}
}

// Commit validates the request, re-checks availability against the store and
// inserts the booking. The availability snapshot seen by the caller may be
// stale, so the pre-check here uses fresh store reads and the insert itself
// repeats the overlap check atomically. Lookup failures during commit are
// propagated rather than mapped to exclusion: committing on stale data is
// unsafe.
func (c *Committer) Commit(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	if err := req.Validate(); err != nil {
		return model.Booking{}, err
	}

	charger, err := c.catalog.GetCharger(ctx, req.ChargerID)
	if err != nil {
		return model.Booking{}, model.ValidationError{Reason: "unknown charger " + req.ChargerID}
	}
	if charger.StationID != req.StationID {
		return model.Booking{}, model.ValidationError{Reason: "charger " + req.ChargerID + " does not belong to station " + req.StationID}
	}

	date := model.Day(req.Date)
	existing, err := c.store.ListBookings(ctx, req.ChargerID, date)
	if err != nil {
		return model.Booking{}, model.LookupError{Op: "re-validate charger " + req.ChargerID, Err: err}
	}
	for _, w := range existing {
		if req.Window.Overlaps(w) {
			c.conflict(req, date)
			return model.Booking{}, model.ConflictError{ChargerID: req.ChargerID, Date: date, Window: req.Window}
		}
	}

	b := model.Booking{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		StationID:     req.StationID,
		ChargerID:     req.ChargerID,
		Date:          date,
		Window:        req.Window,
		EnergyKWh:     req.EnergyKWh,
		Price:         req.EnergyKWh * charger.PricePerKWh,
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPending,
	}
	if err := c.store.InsertBooking(ctx, b); err != nil {
		var conflict model.ConflictError
		if errors.As(err, &conflict) {
			c.conflict(req, date)
			return model.Booking{}, conflict
		}
		return model.Booking{}, model.LookupError{Op: "insert booking", Err: err}
	}

	if c.log != nil {
		c.log.Infof("booking %s confirmed: charger %s on %s %s-%s",
			b.ID, b.ChargerID, date.Format("2006-01-02"), b.Window.Start, b.Window.End)
	}
	if c.bus != nil {
		c.bus.Publish(events.BookingConfirmed{Booking: b})
	}
	return b, nil
}

func (c *Committer) conflict(req model.BookingRequest, date time.Time) {
	if c.log != nil {
		c.log.Warnf("booking conflict: charger %s on %s %s-%s",
			req.ChargerID, date.Format("2006-01-02"), req.Window.Start, req.Window.End)
	}
	if c.bus != nil {
		c.bus.Publish(events.BookingConflict{
			ChargerID: req.ChargerID,
			StationID: req.StationID,
			Date:      date,
			Window:    req.Window,
		})
	}
}
