package model

import (
	"fmt"
	"time"
)

// ValidationError reports a malformed request. Callers should not retry.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return "validation: " + e.Reason }

// ConflictError reports a booking attempt that collided with an existing
// reservation, typically a lost race between two commits. Callers should pick
// another slot or charger rather than retry.
type ConflictError struct {
	ChargerID string
	Date      time.Time
	Window    TimeWindow
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("booking conflict on charger %s at %s %s-%s",
		e.ChargerID, e.Date.Format("2006-01-02"), e.Window.Start, e.Window.End)
}

// LookupError wraps a storage or service fetch failure. During availability
// filtering it maps to exclusion, during commit it is propagated.
type LookupError struct {
	Op  string
	Err error
}

func (e LookupError) Error() string { return fmt.Sprintf("lookup %s: %v", e.Op, e.Err) }

func (e LookupError) Unwrap() error { return e.Err }

// UpstreamServiceError reports a failure of an external service such as the
// route/range calculator. No partial result is returned alongside it.
type UpstreamServiceError struct {
	Service string
	Err     error
}

func (e UpstreamServiceError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Service, e.Err)
}

func (e UpstreamServiceError) Unwrap() error { return e.Err }
