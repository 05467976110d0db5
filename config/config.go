package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/infra/cache"
	"github.com/kilianp07/chargeplan/infra/mqtt"
	"github.com/kilianp07/chargeplan/infra/store"
	"github.com/kilianp07/chargeplan/routeapi"
)

type Config struct {
	HTTP     HTTPConfig         `json:"http"`
	Store    store.Config       `json:"store"`
	Cache    cache.Config       `json:"cache"`
	RouteAPI routeapi.Config    `json:"routeapi"`
	Booking  BookingConfig      `json:"booking"`
	MQTT     mqtt.Config        `json:"mqtt"`
	Metrics  coremetrics.Config `json:"metrics"`
}

// HTTPConfig defines the listen address of the public API.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// BookingConfig tunes the booking and trip planning behaviour.
type BookingConfig struct {
	// SuggestRadiusKm bounds station suggestions around the critical point
	// of a planned trip.
	SuggestRadiusKm float64 `json:"suggest_radius_km"`
	// StrictAvailability surfaces lookup failures instead of treating the
	// affected chargers as unavailable.
	StrictAvailability bool `json:"strict_availability"`
}

// SetDefaults applies sane defaults.
func (c *BookingConfig) SetDefaults() {
	if c.SuggestRadiusKm <= 0 {
		c.SuggestRadiusKm = 200
	}
}

// Validate checks mandatory fields.
func (c BookingConfig) Validate() error {
	if c.SuggestRadiusKm <= 0 {
		return fmt.Errorf("suggest_radius_km must be positive")
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Cache.SetDefaults()
	cfg.RouteAPI.SetDefaults()
	cfg.Booking.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Cache.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RouteAPI.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Booking.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
