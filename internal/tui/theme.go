package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the viewer uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusPaneStyle = paneStyle.BorderForeground(colorFocus)

	cursorStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	rowStyle      = lipgloss.NewStyle().Foreground(colorSubtext1)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay1)
	totalStyle    = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	loadingStyle  = lipgloss.NewStyle().Foreground(colorWarning)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
)
