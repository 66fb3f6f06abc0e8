package service

import (
	"errors"
	"strings"
	"time"
)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// LogFilter selects audit events by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SOLENOID_TRIGGER", "SIMULATION_START", "SIMULATION_STOP"
}

// normalized returns f with both bounds in UTC and an upper-case type.
func (f LogFilter) normalized() (LogFilter, error) {
	out := LogFilter{Type: strings.ToUpper(strings.TrimSpace(f.Type))}
	if !f.From.IsZero() {
		out.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		out.To = f.To.UTC()
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	return out, nil
}
