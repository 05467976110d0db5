package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/chargeplan/core/model"
)

// ErrNotFound is returned when a catalog entity does not exist.
var ErrNotFound = errors.New("not found")

// Backend is the full storage surface consumed by the booking engine and the
// HTTP handlers. Each implementation must make InsertBooking a serialized
// check-and-insert so the non-overlap invariant holds under concurrent
// commits.
type Backend interface {
	ListStations(ctx context.Context) ([]model.Station, error)
	ListChargers(ctx context.Context, stationID string) ([]model.Charger, error)
	GetCharger(ctx context.Context, chargerID string) (model.Charger, error)
	ListBookings(ctx context.Context, chargerID string, date time.Time) ([]model.TimeWindow, error)
	InsertBooking(ctx context.Context, b model.Booking) error
	Close() error
}

// Config selects the storage backend.
type Config struct {
	// Backend selects the store type: "memory", "sqlite" or "postgres".
	Backend string `json:"backend"`
	// Path is the database file location for the sqlite backend.
	Path string `json:"path"`
	// DSN is the connection string for the postgres backend.
	DSN string `json:"dsn"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "chargeplan.db"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory":
		return nil
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required for the sqlite backend")
		}
		return nil
	case "postgres":
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
}

// Open creates the configured backend.
func Open(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "postgres":
		return NewPostgresStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
	}
}
