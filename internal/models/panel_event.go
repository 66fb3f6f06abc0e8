package models

import "time"

// Event types recorded for operator actions.
const (
	EventSolenoidTrigger = "SOLENOID_TRIGGER"
	EventSimulationStart = "SIMULATION_START"
	EventSimulationStop  = "SIMULATION_STOP"
)

// PanelEvent is a single audit log entry.
type PanelEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // SOLENOID_TRIGGER | SIMULATION_START | SIMULATION_STOP
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
