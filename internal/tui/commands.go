package tui

import (
	"context"
	"strconv"

	"garden_panel/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

// waitForState blocks on the store subscription for the next snapshot.
func waitForState(updates <-chan models.PanelState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return stateMsg(st)
	}
}

func triggerSolenoid(ctx context.Context, ctrl Controller, id string) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.Trigger(ctx, id)
		return triggerMsg{Result: res, Err: err}
	}
}

func startSimulation(ctx context.Context, ctrl Controller, hz float64) tea.Cmd {
	return func() tea.Msg {
		return simulationMsg{Err: ctrl.Start(ctx, strconv.FormatFloat(hz, 'f', -1, 64))}
	}
}

func stopSimulation(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Stop(ctx)
		return simulationMsg{}
	}
}
