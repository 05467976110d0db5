// Package trip orchestrates route segmentation and station discovery for a
// planned journey.
package trip

import (
	"context"

	"github.com/kilianp07/chargeplan/core/events"
	"github.com/kilianp07/chargeplan/core/logger"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/route"
	"github.com/kilianp07/chargeplan/core/station"
	"github.com/kilianp07/chargeplan/internal/eventbus"
)

// RangeQuery describes the journey handed to the route/range service.
type RangeQuery struct {
	Start        model.Coordinate
	End          model.Coordinate
	RemainingKWh float64
}

// RouteService computes the drivable route and reachability zones for a
// query. Implemented by the routeapi client.
type RouteService interface {
	CalculateRange(ctx context.Context, q RangeQuery) (model.RoutePlan, error)
}

// StationLister provides the station catalog, usually through the TTL cache.
type StationLister interface {
	ListStations(ctx context.Context) ([]model.Station, error)
}

// Plan is the outcome of planning one trip.
type Plan struct {
	Segments []model.RouteSegment `json:"segments"`
	Stations []model.Station      `json:"stations"`
}

// Planner wires the route service, the segmenter and the proximity filter.
type Planner struct {
	routes   RouteService
	stations StationLister
	radiusKm float64
	bus      eventbus.EventBus
	log      logger.Logger
}

// NewPlanner creates a Planner suggesting stations within radiusKm of the
// red-zone breakpoint.
func NewPlanner(routes RouteService, stations StationLister, radiusKm float64, bus eventbus.EventBus, log logger.Logger) *Planner {
	return &Planner{routes: routes, stations: stations, radiusKm: radiusKm, bus: bus, log: log}
}

// Plan fetches the route, colors it and suggests stations near the point
// where the remaining range becomes critical. An upstream failure is
// propagated with no partial result. A station lookup failure is fail-closed:
// the trip still returns its segments, just without suggestions.
func (p *Planner) Plan(ctx context.Context, q RangeQuery) (Plan, error) {
	if !q.Start.Valid() || !q.End.Valid() {
		return Plan{}, model.ValidationError{Reason: "start and end coordinates out of range"}
	}
	if q.RemainingKWh <= 0 {
		return Plan{}, model.ValidationError{Reason: "remaining capacity must be positive"}
	}

	rp, err := p.routes.CalculateRange(ctx, q)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Segments: route.Segment(rp.Route, route.FromPlan(rp))}
	if rp.RedZone != nil {
		stations, err := p.stations.ListStations(ctx)
		if err != nil {
			if p.log != nil {
				p.log.Warnf("station lookup failed, no suggestions: %v", err)
			}
		} else {
			plan.Stations = station.WithinRadius(*rp.RedZone, stations, p.radiusKm)
		}
	}

	if p.bus != nil {
		p.bus.Publish(events.TripPlanned{
			Segments:     len(plan.Segments),
			Stations:     len(plan.Stations),
			RoutePoints:  len(rp.Route),
			RemainingKWh: q.RemainingKWh,
		})
	}
	return plan, nil
}
