package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Status colors
	GreenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	RedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	YellowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	CyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	MagentaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// Progress states
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ActiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	URLStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	// UI elements
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// Table styling
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 1)

	// Log timestamp - subtle gray to distinguish from log content
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	// Log source label shown in front of multi-source log lines
	SourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	// Selected attempt button in the attempt bar
	SelectedAttemptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("14")).
				Padding(0, 1)

	// Unselected attempt button
	AttemptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Padding(0, 1)

	// Active filter chip
	FilterOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(0, 1)

	// Inactive filter chip
	FilterOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
)
