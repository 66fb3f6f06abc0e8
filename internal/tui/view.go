package tui

import (
	"fmt"
	"strings"

	"garden_panel/internal/backend"
)

const placeholder = "-"

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Garden panel"))
	b.WriteString("\n")

	rows := []struct{ label, value string }{
		{"Camera", m.State.VideoFeed},
		{"Status", m.State.Status},
		{"Job", m.State.JobResult},
		{"Flow", m.State.Flow},
		{"Watermark", m.watermark()},
		{"Simulation", m.simulation()},
	}
	var box strings.Builder
	for i, r := range rows {
		if i > 0 {
			box.WriteString("\n")
		}
		v := r.value
		if v == "" {
			v = placeholder
		}
		box.WriteString(LabelStyle.Render(r.label) + ValueStyle.Render(v))
	}
	b.WriteString(BoxStyle.Render(box.String()))
	b.WriteString("\n\n")

	b.WriteString(m.solenoidRow())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Rate: %g Hz", m.Hz)))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.Err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(InfoStyle.Render("0-3 select | enter trigger | +/- rate | s simulate | x stop | q quit"))
	return b.String()
}

func (m Model) solenoidRow() string {
	parts := make([]string, 0, len(Solenoids))
	for _, id := range Solenoids {
		if id == m.Selected {
			parts = append(parts, SelectedStyle.Render(id))
			continue
		}
		parts = append(parts, UnselectedStyle.Render(id))
	}
	return strings.Join(parts, " ")
}

func (m Model) watermark() string {
	if m.State.Watermark == nil {
		return ""
	}
	return backend.FormatWatermark(*m.State.Watermark)
}

func (m Model) simulation() string {
	if !m.State.Simulating {
		return "stopped"
	}
	return fmt.Sprintf("%g Hz", m.State.SimulationHz)
}
