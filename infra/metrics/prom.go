package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
)

// PromSink records booking outcomes in Prometheus metrics.
type PromSink struct {
	bookings     *prometheus.CounterVec
	energy       *prometheus.HistogramVec
	availability *prometheus.CounterVec
}

// NewPromSink registers booking metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_attempts_total",
		Help: "Total number of booking attempts by outcome",
	}, []string{"station_id", "outcome"})
	energy := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_energy_kwh",
		Help:    "Energy reserved per confirmed booking",
		Buckets: []float64{5, 10, 20, 40, 80},
	}, []string{"station_id"})
	availability := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_checks_total",
		Help: "Total number of availability queries by result",
	}, []string{"station_id", "result"})

	for i, c := range []*prometheus.CounterVec{bookings, availability} {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				existing := are.ExistingCollector.(*prometheus.CounterVec)
				if i == 0 {
					bookings = existing
				} else {
					availability = existing
				}
			} else {
				return nil, err
			}
		}
	}
	if err := reg.Register(energy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			energy = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{bookings: bookings, energy: energy, availability: availability}, nil
}

// RecordBooking increments the counter for each booking outcome.
func (s *PromSink) RecordBooking(recs []coremetrics.BookingRecord) error {
	for _, r := range recs {
		s.bookings.WithLabelValues(r.StationID, r.Outcome).Inc()
		if r.Outcome == "confirmed" {
			s.energy.WithLabelValues(r.StationID).Observe(r.EnergyKWh)
		}
	}
	return nil
}

// RecordAvailability tracks availability query results.
func (s *PromSink) RecordAvailability(recs []coremetrics.AvailabilityRecord) error {
	for _, r := range recs {
		result := "available"
		if r.Available == 0 {
			result = "full"
		}
		s.availability.WithLabelValues(r.StationID, result).Inc()
	}
	return nil
}
