package views

import (
	"github.com/charmbracelet/lipgloss"

	"bam/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Filter      lipgloss.Style
	Count       lipgloss.Style
	Search      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Scroll      lipgloss.Style
	Name        lipgloss.Style
	Highlight   lipgloss.Style
	SelectionBg lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Count:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Search: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("241")).
			MarginBottom(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Name:        lipgloss.NewStyle().Bold(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// KindColor returns the color used for an app kind badge
func KindColor(kind domain.AppKind) string {
	switch kind {
	case domain.KindAlias:
		return "33" // blue
	case domain.KindProcess:
		return "78" // green
	case domain.KindStatic:
		return "214" // yellow
	default:
		return "241"
	}
}
