package routeapi

import (
	"fmt"

	"github.com/kilianp07/chargeplan/core/model"
)

type coordPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// zonePayload wraps a zone transition point. The upstream service sends null
// when the vehicle never reaches that state on the route.
type zonePayload struct {
	Coordinate *coordPayload `json:"coordinate"`
}

// rangeRequest is the payload sent to the range service.
type rangeRequest struct {
	Start             coordPayload `json:"start"`
	End               coordPayload `json:"end"`
	RemainingCapacity float64      `json:"remaining_capacity"`
	Mass              float64      `json:"mass"`
	Efficiency        float64      `json:"effi"`
}

// rangeResponse is the raw payload received from the range service.
type rangeResponse struct {
	RouteCoordinates []coordPayload `json:"route_coordinates"`
	GreenZone        *zonePayload   `json:"green_zone"`
	OrangeZone       *zonePayload   `json:"orange_zone"`
	RedZone          *zonePayload   `json:"red_zone"`
}

// ToPlan converts the raw payload into a validated route plan.
func (r rangeResponse) ToPlan() (model.RoutePlan, error) {
	if len(r.RouteCoordinates) == 0 {
		return model.RoutePlan{}, fmt.Errorf("route_coordinates required")
	}
	plan := model.RoutePlan{Route: make([]model.Coordinate, len(r.RouteCoordinates))}
	for i, p := range r.RouteCoordinates {
		c := model.Coordinate{Lat: p.Lat, Lon: p.Lon}
		if !c.Valid() {
			return model.RoutePlan{}, fmt.Errorf("route_coordinates[%d]: coordinate out of range", i)
		}
		plan.Route[i] = c
	}
	var err error
	if plan.GreenZone, err = zoneCoord("green_zone", r.GreenZone); err != nil {
		return model.RoutePlan{}, err
	}
	if plan.OrangeZone, err = zoneCoord("orange_zone", r.OrangeZone); err != nil {
		return model.RoutePlan{}, err
	}
	if plan.RedZone, err = zoneCoord("red_zone", r.RedZone); err != nil {
		return model.RoutePlan{}, err
	}
	return plan, nil
}

func zoneCoord(name string, z *zonePayload) (*model.Coordinate, error) {
	if z == nil || z.Coordinate == nil {
		return nil, nil
	}
	c := model.Coordinate{Lat: z.Coordinate.Lat, Lon: z.Coordinate.Lon}
	if !c.Valid() {
		return nil, fmt.Errorf("%s: coordinate out of range", name)
	}
	return &c, nil
}
