package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for screen and picker titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// SelectedItemStyle is used for highlighted/selected items.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")). // Light purple
				Bold(true)

	// NormalItemStyle is used for non-selected items.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// SuccessStyle is used for confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")) // Green

	// PromptStyle is used for prompt text.
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")). // Light blue
			MarginBottom(1)

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			MarginTop(1)
)

// Dashboard styles
var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")).
			Bold(true).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("205"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedRowStyle = tableCellStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("228")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)
)

// badgeStyles maps render classes to badge colours.
var badgeStyles = map[string]lipgloss.Style{
	"easy":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	"medium":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"hard":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"done":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	"wip":     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	"pending": lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	"failed":  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

func badgeStyle(class string) lipgloss.Style {
	if s, ok := badgeStyles[class]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// toastStyles maps notification severities to colours.
var toastStyles = map[string]lipgloss.Style{
	"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	"success": SuccessStyle,
	"error":   ErrorStyle,
}
