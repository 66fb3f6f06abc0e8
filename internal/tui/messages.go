package tui

import "garden_panel/internal/models"

// stateMsg carries a fresh panel snapshot from the store.
type stateMsg models.PanelState

// updatesClosedMsg is sent once the store subscription ends.
type updatesClosedMsg struct{}

// triggerMsg is the outcome of a solenoid trigger.
type triggerMsg struct {
	Result models.CommandResult
	Err    error
}

// simulationMsg is the outcome of a start or stop request.
type simulationMsg struct {
	Err error
}
