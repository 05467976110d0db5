package model

import (
	"fmt"
	"math"
	"time"
)

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// minutesPerDay bounds a ClockTime; windows never cross midnight.
const minutesPerDay = 24 * 60

// ParseClock parses a "HH:MM" string into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ValidationError{Reason: fmt.Sprintf("invalid time %q", s)}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ValidationError{Reason: fmt.Sprintf("invalid time %q", s)}
	}
	return ClockTime(h*60 + m), nil
}

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeWindow is a half-open [Start, End) interval within a single day.
// Start is inclusive and End is exclusive for overlap purposes.
type TimeWindow struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// NewWindow builds a window from a start time and a duration in hours.
// The duration must be positive and the window must not cross midnight.
func NewWindow(start ClockTime, durationHours float64) (TimeWindow, error) {
	if durationHours <= 0 {
		return TimeWindow{}, ValidationError{Reason: "duration must be positive"}
	}
	if start < 0 || int(start) >= minutesPerDay {
		return TimeWindow{}, ValidationError{Reason: fmt.Sprintf("start time %d out of range", start)}
	}
	end := int(start) + int(math.Round(durationHours*60))
	if end > minutesPerDay {
		return TimeWindow{}, ValidationError{Reason: "window crosses midnight"}
	}
	return TimeWindow{Start: start, End: ClockTime(end)}, nil
}

// Overlaps reports whether two half-open windows intersect. Windows that only
// touch at an endpoint do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && w.End > other.Start
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w.End-w.Start) * time.Minute
}

// Validate checks the window invariant End > Start within one day.
func (w TimeWindow) Validate() error {
	if w.Start < 0 || int(w.End) > minutesPerDay || w.End <= w.Start {
		return ValidationError{Reason: fmt.Sprintf("invalid window %s-%s", w.Start, w.End)}
	}
	return nil
}

// Day normalizes t to midnight UTC so bookings compare on calendar date only.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
