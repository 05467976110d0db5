package model

// Station is a charging location owning zero or more chargers.
type Station struct {
	ID       string     `json:"id"`
	Location string     `json:"location"`
	Coord    Coordinate `json:"coord"`
}

// Charger is a single charging point at a station.
type Charger struct {
	ID          string  `json:"id"`
	StationID   string  `json:"station_id"`
	Type        string  `json:"type"`
	PowerKW     float64 `json:"power_kw"`
	PricePerKWh float64 `json:"price_per_kwh"`
}
