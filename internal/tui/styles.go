package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for the screen title bar.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// SelectedItemStyle highlights the focused result row.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")). // Light purple
				Bold(true)

	// NormalItemStyle is used for non-selected result rows.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// StateOpenStyle and StateClosedStyle color the issue state tag.
	StateOpenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")) // Green

	StateClosedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")) // Violet

	// DetailTagStyle marks rows that carry enriched detail.
	DetailTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// HelpStyle is used for the key help line.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			MarginTop(1)

	// StatusStyle is used for the status bar under the result list.
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // Light blue
)
