package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/chargeplan/core/booking"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/infra/mqtt"
	"github.com/kilianp07/chargeplan/infra/store"
	"github.com/kilianp07/chargeplan/internal/eventbus"
)

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
log_type notice
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", broker, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

func TestBookingNotificationWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	subOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("subscriber")
	subCli := paho.NewClient(subOpts)
	if token := subCli.Connect(); token.Wait() && token.Error() != nil {
		t.Skipf("subscriber connect: %v", token.Error())
	}
	defer subCli.Disconnect(100)

	received := make(chan model.Booking, 1)
	if token := subCli.Subscribe("chargeplan/bookings/s1", 0, func(_ paho.Client, m paho.Message) {
		var b model.Booking
		if err := json.Unmarshal(m.Payload(), &b); err != nil {
			t.Errorf("decode notification: %v", err)
			return
		}
		select {
		case received <- b:
		default:
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	pub, err := mqtt.NewPahoPublisher(mqtt.Config{Broker: broker, ClientID: "publisher"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Disconnect()

	bus := eventbus.New()
	defer bus.Close()
	notifyCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	mqtt.StartNotifier(notifyCtx, bus, pub)
	time.Sleep(100 * time.Millisecond)

	st := store.NewMemoryStore()
	st.AddStation(model.Station{ID: "s1", Location: "Paris"})
	st.AddCharger(model.Charger{ID: "c1", StationID: "s1", Type: "DC", PowerKW: 50, PricePerKWh: 0.4})
	committer := booking.New(st, st, bus, logger.NopLogger{})

	window, err := model.NewWindow(10*60, 2)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	b, err := committer.Commit(ctx, model.BookingRequest{
		UserID:    "u1",
		StationID: "s1",
		ChargerID: "c1",
		Date:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Window:    window,
		EnergyKWh: 20,
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	select {
	case got := <-received:
		if got.ID != b.ID {
			t.Errorf("booking id mismatch: got %s want %s", got.ID, b.ID)
		}
		if got.Status != model.StatusConfirmed {
			t.Errorf("status: %s", got.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no booking notification received")
	}
}
