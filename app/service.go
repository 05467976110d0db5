package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apibookings "github.com/kilianp07/chargeplan/api/bookings"
	apistations "github.com/kilianp07/chargeplan/api/stations"
	apitrips "github.com/kilianp07/chargeplan/api/trips"
	"github.com/kilianp07/chargeplan/config"
	"github.com/kilianp07/chargeplan/core/availability"
	"github.com/kilianp07/chargeplan/core/booking"
	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/core/trip"
	"github.com/kilianp07/chargeplan/infra/cache"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/infra/metrics"
	"github.com/kilianp07/chargeplan/infra/mqtt"
	"github.com/kilianp07/chargeplan/infra/store"
	"github.com/kilianp07/chargeplan/internal/eventbus"
	"github.com/kilianp07/chargeplan/routeapi"
)

// Service orchestrates the booking engine and its HTTP surface.
type Service struct {
	Store     store.Backend
	Catalog   *cache.Catalog
	Filter    *availability.Filter
	Committer *booking.Committer
	Planner   *trip.Planner

	bus         eventbus.EventBus
	cache       cache.Cache
	publisher   mqtt.Publisher
	sink        coremetrics.MetricsSink
	httpAddr    string
	radiusKm    float64
	promEnabled bool
	promPort    string
	log         logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	backend, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	ch, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	catalog := cache.NewCatalog(backend, ch, cfg.Cache.TTL(), logg)

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()

	var publisher mqtt.Publisher
	if cfg.MQTT.Enabled {
		publisher, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	filter := availability.New(backend, logg)
	filter.Strict = cfg.Booking.StrictAvailability
	committer := booking.New(backend, catalog, bus, logg)
	routes := routeapi.NewClient(cfg.RouteAPI)
	planner := trip.NewPlanner(routes, catalog, cfg.Booking.SuggestRadiusKm, bus, logg)

	return &Service{
		Store:       backend,
		Catalog:     catalog,
		Filter:      filter,
		Committer:   committer,
		Planner:     planner,
		bus:         bus,
		cache:       ch,
		publisher:   publisher,
		sink:        sink,
		httpAddr:    cfg.HTTP.Addr,
		radiusKm:    cfg.Booking.SuggestRadiusKm,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		log:         logg,
	}, nil
}

// Handler builds the public API mux.
func (s *Service) Handler() http.Handler {
	var recorder coremetrics.AvailabilityRecorder
	if r, ok := s.sink.(coremetrics.AvailabilityRecorder); ok {
		recorder = r
	}
	mux := http.NewServeMux()
	mux.Handle("/api/stations/nearby", apistations.NewNearbyHandler(s.Catalog, s.radiusKm))
	mux.Handle("/api/availability", apibookings.NewAvailabilityHandler(s.Filter, s.Catalog, recorder))
	mux.Handle("/api/bookings", apibookings.NewBookingHandler(s.Committer))
	mux.Handle("/api/trips/plan", apitrips.NewPlanHandler(s.Planner))
	return mux
}

// Run starts the HTTP API and the background consumers and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.publisher != nil {
		mqtt.StartNotifier(ctx, s.bus, s.publisher)
	}
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.httpAddr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("HTTP API listening on %s", s.httpAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if err := s.cache.Close(); err != nil {
		s.log.Errorf("cache close: %v", err)
	}
	return s.Store.Close()
}
