package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargeplan/core/events"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/internal/eventbus"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	failures int
}

func (c *fakeClient) IsConnected() bool      { return true }
func (c *fakeClient) Connect() paho.Token    { return &fakeToken{} }
func (c *fakeClient) Disconnect(uint)        {}
func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return &fakeToken{err: assert.AnError}
	}
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return &fakeToken{}
}

func newTestPublisher(cli pahoClient) *PahoPublisher {
	return &PahoPublisher{
		cli:         cli,
		topicPrefix: "chargeplan",
		maxRetries:  2,
		backoff:     time.Millisecond,
		logger:      logger.NopLogger{},
	}
}

func TestPublishBookingTopicAndPayload(t *testing.T) {
	cli := &fakeClient{}
	pub := newTestPublisher(cli)

	b := model.Booking{ID: "b1", StationID: "s1", ChargerID: "c1"}
	require.NoError(t, pub.PublishBooking(b))

	require.Len(t, cli.topics, 1)
	assert.Equal(t, "chargeplan/bookings/s1", cli.topics[0])

	var got model.Booking
	require.NoError(t, json.Unmarshal(cli.payloads[0], &got))
	assert.Equal(t, "b1", got.ID)
}

func TestPublishBookingRetries(t *testing.T) {
	cli := &fakeClient{failures: 2}
	pub := newTestPublisher(cli)

	require.NoError(t, pub.PublishBooking(model.Booking{ID: "b1", StationID: "s1"}))
	require.Len(t, cli.topics, 1)
}

func TestNotifierForwardsConfirmedBookings(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	pub := NewMockPublisher()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartNotifier(ctx, bus, pub)

	time.Sleep(10 * time.Millisecond)
	bus.Publish(events.BookingConfirmed{Booking: model.Booking{ID: "b1", StationID: "s1"}})
	bus.Publish(events.BookingConflict{ChargerID: "c1"})

	assert.Eventually(t, func() bool {
		return len(pub.Published()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "b1", pub.Published()[0].ID)
}
