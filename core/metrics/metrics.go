// Package metrics defines the sink interfaces used to record booking
// observability data.
package metrics

import "time"

// BookingRecord represents one booking attempt outcome to be recorded.
type BookingRecord struct {
	StationID string
	ChargerID string
	Outcome   string // "confirmed" or "conflict"
	EnergyKWh float64
	Price     float64
	Time      time.Time
}

// AvailabilityRecord captures the result of one availability query.
type AvailabilityRecord struct {
	StationID string
	Requested int
	Available int
	Time      time.Time
}

// MetricsSink records booking outcomes for observability purposes.
type MetricsSink interface {
	RecordBooking(recs []BookingRecord) error
}

// AvailabilityRecorder is implemented by sinks that also track availability
// queries.
type AvailabilityRecorder interface {
	RecordAvailability(recs []AvailabilityRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordBooking([]BookingRecord) error { return nil }

func (NopSink) RecordAvailability([]AvailabilityRecord) error { return nil }
