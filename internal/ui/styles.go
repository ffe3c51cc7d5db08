package ui

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorAccent = ac("27", "62")
	colorError  = ac("160", "203")
	colorDone   = ac("28", "78")
	colorOpen   = ac("166", "214")

	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	doneStyle     = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dueStyle      = lipgloss.NewStyle().Foreground(colorMuted)

	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorMuted)

	cellWidth      = 6
	cellStyle      = lipgloss.NewStyle().Width(cellWidth)
	cellLabelStyle = lipgloss.NewStyle().Width(cellWidth).Foreground(colorMuted)
	cellCursor     = lipgloss.NewStyle().Width(cellWidth).Reverse(true)
	cellSelected   = lipgloss.NewStyle().Width(cellWidth).Foreground(colorAccent).Bold(true).Underline(true)
	cellToday      = lipgloss.NewStyle().Width(cellWidth).Bold(true)
	markerOpen     = lipgloss.NewStyle().Foreground(colorOpen)
	markerDone     = lipgloss.NewStyle().Foreground(colorDone)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)
