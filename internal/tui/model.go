package tui

import (
	"context"
	"errors"

	"garden_panel/internal/models"
	"garden_panel/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

// Solenoids are the valves wired to the relay bank.
var Solenoids = []string{"S0", "S1", "S2", "S3"}

const (
	hzStep    = 1.0
	defaultHz = 10.0
)

// Controller is the part of the service layer the terminal panel drives.
type Controller interface {
	Trigger(ctx context.Context, id string) (models.CommandResult, error)
	Start(ctx context.Context, hz string) error
	Stop(ctx context.Context)
}

type controller struct {
	service.Solenoid
	service.Simulator
}

// NewController adapts the aggregated service for the panel.
func NewController(s *service.Service) Controller {
	return controller{Solenoid: s.Solenoid, Simulator: s.Simulator}
}

// Model is the terminal panel. It renders snapshots pushed by the panel
// store and turns key presses into service calls.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	updates <-chan models.PanelState

	State    models.PanelState
	Selected string
	Hz       float64
	Err      error
}

// NewModel builds a panel reading from updates. initial is shown until the
// first update arrives.
func NewModel(ctx context.Context, ctrl Controller, initial models.PanelState, updates <-chan models.PanelState) Model {
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		updates: updates,
		State:   initial,
		Hz:      defaultHz,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return waitForState(m.updates)
}

// Run blocks until the operator quits or ctx is done.
func Run(ctx context.Context, m Model) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
