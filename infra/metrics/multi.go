package metrics

import coremetrics "github.com/kilianp07/chargeplan/core/metrics"

// MultiSink fans booking records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBooking forwards the records to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordBooking(recs []coremetrics.BookingRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordBooking(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordAvailability forwards availability records when supported by the
// sink.
func (m *MultiSink) RecordAvailability(recs []coremetrics.AvailabilityRecord) error {
	for _, s := range m.Sinks {
		if ar, ok := s.(coremetrics.AvailabilityRecorder); ok {
			if err := ar.RecordAvailability(recs); err != nil {
				return err
			}
		}
	}
	return nil
}
