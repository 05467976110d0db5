package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/chargeplan/core/events"
	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// booking events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.BookingConfirmed:
					_ = sink.RecordBooking([]coremetrics.BookingRecord{{
						StationID: e.Booking.StationID,
						ChargerID: e.Booking.ChargerID,
						Outcome:   "confirmed",
						EnergyKWh: e.Booking.EnergyKWh,
						Price:     e.Booking.Price,
						Time:      time.Now(),
					}})
				case events.BookingConflict:
					_ = sink.RecordBooking([]coremetrics.BookingRecord{{
						StationID: e.StationID,
						ChargerID: e.ChargerID,
						Outcome:   "conflict",
						Time:      time.Now(),
					}})
				}
			}
		}
	}()
}
