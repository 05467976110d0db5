package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/chargeplan/core/events"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/internal/eventbus"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Bookings []model.Booking
	FailIDs  map[string]bool
	mu       sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailIDs: make(map[string]bool)}
}

// PublishBooking records the booking or returns an error if configured to fail.
func (m *MockPublisher) PublishBooking(b model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[b.StationID] {
		return fmt.Errorf("publish failed")
	}
	m.Bookings = append(m.Bookings, b)
	return nil
}

// Published returns a copy of the recorded bookings.
func (m *MockPublisher) Published() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, len(m.Bookings))
	copy(out, m.Bookings)
	return out
}

// Disconnect is a no-op.
func (m *MockPublisher) Disconnect() {}

// StartNotifier forwards confirmed bookings from the event bus to the
// publisher until the context is cancelled.
func StartNotifier(ctx context.Context, bus eventbus.EventBus, pub Publisher) {
	log := logger.New("mqtt_notifier")
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
				conf, ok := ev.(events.BookingConfirmed)
				if !ok {
					continue
				}
				if err := pub.PublishBooking(conf.Booking); err != nil {
					log.Errorf("notify booking %s: %v", conf.Booking.ID, err)
				}
			}
		}
	}()
}
