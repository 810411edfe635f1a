package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			MarginBottom(1)

	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Padding(1, 0)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	stimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
