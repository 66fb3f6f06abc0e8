package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary = "#2E8B57"
	colorSuccess = "#04B575"
	colorError   = "#FF5F5F"
	colorInfo    = "#808080"
	colorLabel   = "#FAFAFA"
	colorBorder  = "#3CB371"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorLabel)).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorLabel)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo)).
			Padding(0, 1)
)
