package cache

import (
	"context"
	"time"

	"github.com/kilianp07/chargeplan/core/logger"
	"github.com/kilianp07/chargeplan/core/model"
)

// CatalogSource is the uncached view of the station/charger catalog.
type CatalogSource interface {
	ListStations(ctx context.Context) ([]model.Station, error)
	ListChargers(ctx context.Context, stationID string) ([]model.Charger, error)
	GetCharger(ctx context.Context, chargerID string) (model.Charger, error)
}

// Catalog serves station and charger listings read-through with a TTL.
// Writes do not invalidate entries; a stale catalog heals itself on expiry.
type Catalog struct {
	source CatalogSource
	cache  Cache
	ttl    time.Duration
	log    logger.Logger
}

// NewCatalog wraps source with the given cache.
func NewCatalog(source CatalogSource, cache Cache, ttl time.Duration, log logger.Logger) *Catalog {
	return &Catalog{source: source, cache: cache, ttl: ttl, log: log}
}

// ListStations returns the cached station list, refreshing it on miss.
func (c *Catalog) ListStations(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	if hit, err := c.cache.Get(ctx, "stations", &stations); err == nil && hit {
		return stations, nil
	} else if err != nil && c.log != nil {
		c.log.Warnf("station cache read: %v", err)
	}

	stations, err := c.source.ListStations(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, "stations", stations, c.ttl); err != nil && c.log != nil {
		c.log.Warnf("station cache write: %v", err)
	}
	return stations, nil
}

// ListChargers returns the cached charger list of one station, refreshing it
// on miss.
func (c *Catalog) ListChargers(ctx context.Context, stationID string) ([]model.Charger, error) {
	key := "chargers:" + stationID
	var chargers []model.Charger
	if hit, err := c.cache.Get(ctx, key, &chargers); err == nil && hit {
		return chargers, nil
	} else if err != nil && c.log != nil {
		c.log.Warnf("charger cache read: %v", err)
	}

	chargers, err := c.source.ListChargers(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, chargers, c.ttl); err != nil && c.log != nil {
		c.log.Warnf("charger cache write: %v", err)
	}
	return chargers, nil
}

// GetCharger returns one cached charger, refreshing it on miss. Lookup
// failures from the source, including a missing charger, propagate uncached.
func (c *Catalog) GetCharger(ctx context.Context, chargerID string) (model.Charger, error) {
	key := "charger:" + chargerID
	var charger model.Charger
	if hit, err := c.cache.Get(ctx, key, &charger); err == nil && hit {
		return charger, nil
	} else if err != nil && c.log != nil {
		c.log.Warnf("charger cache read: %v", err)
	}

	charger, err := c.source.GetCharger(ctx, chargerID)
	if err != nil {
		return model.Charger{}, err
	}
	if err := c.cache.Set(ctx, key, charger, c.ttl); err != nil && c.log != nil {
		c.log.Warnf("charger cache write: %v", err)
	}
	return charger, nil
}
