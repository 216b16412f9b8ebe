package inventory

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	name    lipgloss.Style
	detail  lipgloss.Style
	empty   lipgloss.Style
	section lipgloss.Style

	stateRunning lipgloss.Style
	stateOff     lipgloss.Style
	statePaused  lipgloss.Style
	stateSaved   lipgloss.Style
	stateUnknown lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:   lipgloss.NewStyle().Faint(true),
		section: lipgloss.NewStyle().MarginTop(1),

		stateRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		stateOff:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		statePaused:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		stateSaved:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		stateUnknown: lipgloss.NewStyle().Faint(true),
	}
}
