package models

import (
	"encoding/json"
	"time"
)

// Job result messages shown after a solenoid trigger.
const (
	ResultQueued = "Result: Successfully queued"
	ResultBusy   = "Result: Another job is already running"
)

// StatusSnapshot is the solenoid status blob. It is only checked to be JSON.
type StatusSnapshot struct {
	Raw json.RawMessage
}

// CommandResult is the backend's answer to a solenoid trigger. Queued is false
// when another watering job is already running.
type CommandResult struct {
	Queued bool `json:"queued"`
}

// Message renders the result the way the panel displays it.
func (r CommandResult) Message() string {
	if r.Queued {
		return ResultQueued
	}
	return ResultBusy
}

// FlowBatch is one flow poll response. Timestamp is nil when the backend has
// no sample newer than the requested watermark. TimestampErr is set when the
// body carried a timestamp that could not be read; Raw is still valid then.
type FlowBatch struct {
	Timestamp    *time.Time
	TimestampErr error
	Raw          json.RawMessage
}
