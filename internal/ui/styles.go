package ui

import "github.com/charmbracelet/lipgloss"

// Color palette: a single cyan accent plus grays.
const (
	ColorAccent    = "45"  // result names, headers
	ColorAccentDim = "37"  // labels
	ColorWhite     = "255" // emphasized text
	ColorGray      = "245" // secondary text
	ColorDarkGray  = "238" // separators, paths
	ColorRed       = "196" // errors
	ColorYellow    = "220" // warnings
	ColorGreen     = "114" // ready/ok states
)

// Styles holds the render styles for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Name    lipgloss.Style
	Match   lipgloss.Style
	Path    lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the styled set for interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
		Name:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Match:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentDim)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled equivalents for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Name:    lipgloss.NewStyle(),
		Match:   lipgloss.NewStyle(),
		Path:    lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
	}
}

// GetStyles selects the style set for the color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
