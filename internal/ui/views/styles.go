package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	ChartTitle    lipgloss.Style
	BlockTitle    lipgloss.Style
	Caption       lipgloss.Style
	URL           lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Sidebar       lipgloss.Style
	Content       lipgloss.Style
	Divider       lipgloss.Style
	Axis          lipgloss.Style
	AxisLabel     lipgloss.Style
	Bar           lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Subtitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ChartTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		BlockTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginTop(1),
		Caption: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		URL:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(0, 1),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("241")).
			PaddingRight(1),
		Content:       lipgloss.NewStyle().PaddingLeft(1),
		Divider:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange, as in the web dashboard
		Axis:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		AxisLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Bar:           lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
