package tui

import (
	"garden_panel/internal/models"
	"garden_panel/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case stateMsg:
		m.State = models.PanelState(msg)
		return m, waitForState(m.updates)
	case updatesClosedMsg:
		return m, tea.Quit
	case triggerMsg:
		m.Err = msg.Err
		return m, nil
	case simulationMsg:
		m.Err = msg.Err
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "0", "1", "2", "3":
		m.Selected = Solenoids[key[0]-'0']
		m.Err = nil
	case "enter":
		if m.Selected == "" {
			m.Err = service.ErrNoSolenoidSelected
			return m, nil
		}
		m.Err = nil
		return m, triggerSolenoid(m.ctx, m.ctrl, m.Selected)
	case "+", "=":
		m.Hz = min(m.Hz+hzStep, service.MaxSimulationHz)
	case "-", "_":
		m.Hz = max(m.Hz-hzStep, 0)
	case "s":
		m.Err = nil
		return m, startSimulation(m.ctx, m.ctrl, m.Hz)
	case "x":
		m.Err = nil
		return m, stopSimulation(m.ctx, m.ctrl)
	}
	return m, nil
}
