package routeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/trip"
	"github.com/kilianp07/chargeplan/infra/logger"
)

// Config holds the connection parameters for the external range service.
type Config struct {
	URL            string  `json:"url" yaml:"url"`
	Token          string  `json:"token" yaml:"token"`
	TimeoutSeconds int     `json:"timeout_seconds" yaml:"timeout_seconds"`
	VehicleMassKg  float64 `json:"vehicle_mass_kg" yaml:"vehicle_mass_kg"`
	Efficiency     float64 `json:"efficiency" yaml:"efficiency"`
}

// SetDefaults applies default values for unset fields.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.VehicleMassKg <= 0 {
		c.VehicleMassKg = 1720
	}
	if c.Efficiency <= 0 {
		c.Efficiency = 0.1012
	}
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("routeapi: url is required")
	}
	return nil
}

// Client calls the external route/range service. It implements
// trip.RouteService.
type Client struct {
	url    string
	token  string
	mass   float64
	effi   float64
	client *http.Client
	log    logger.Logger
}

// NewClient creates a new range service client.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		url:    cfg.URL,
		token:  cfg.Token,
		mass:   cfg.VehicleMassKg,
		effi:   cfg.Efficiency,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    logger.New("routeapi"),
	}
}

// CalculateRange fetches the route between the two points together with the
// zone transitions for the given remaining battery capacity.
func (c *Client) CalculateRange(ctx context.Context, q trip.RangeQuery) (model.RoutePlan, error) {
	body, err := json.Marshal(rangeRequest{
		Start:             coordPayload{Lat: q.Start.Lat, Lon: q.Start.Lon},
		End:               coordPayload{Lat: q.End.Lat, Lon: q.End.Lon},
		RemainingCapacity: q.RemainingKWh,
		Mass:              c.mass,
		Efficiency:        c.effi,
	})
	if err != nil {
		return model.RoutePlan{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return model.RoutePlan{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.RoutePlan{}, model.UpstreamServiceError{Service: "routeapi", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Errorf("close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.RoutePlan{}, model.UpstreamServiceError{
			Service: "routeapi",
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg),
		}
	}

	var raw rangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.RoutePlan{}, model.UpstreamServiceError{Service: "routeapi", Err: fmt.Errorf("decode response: %w", err)}
	}
	plan, err := raw.ToPlan()
	if err != nil {
		return model.RoutePlan{}, model.UpstreamServiceError{Service: "routeapi", Err: err}
	}
	c.log.Debugf("route with %d points fetched", len(plan.Route))
	return plan, nil
}
