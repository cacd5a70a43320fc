package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ghforecast/internal/viewmodel"
)

// AppTitle is shown in the header
const AppTitle = "Timeseries Forecasting"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Sidebar       string // rendered catalog list
	Content       string // rendered viewport
	Help          string // rendered key help
	ActiveLabel   string
	Loading       bool
	Spinner       string
	StatusMessage string
	Seq           uint64
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	chartRender *ChartRenderer
	imageRender *ImageRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		chartRender: NewChartRenderer(styles),
		imageRender: NewImageRenderer(styles),
	}
}

// Styles returns the renderer's style set
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	logo := r.styles.Title.Render(AppTitle)
	right := ""
	if state.ActiveLabel != "" {
		right = r.styles.Subtitle.Render(state.ActiveLabel)
		if state.Loading {
			right = fmt.Sprintf("%s %s", state.Spinner, right)
		}
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 2 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	content.WriteString(logo)
	if right != "" {
		content.WriteString(strings.Repeat(" ", padding))
		content.WriteString(right)
	}
	content.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		r.styles.Sidebar.Render(state.Sidebar),
		r.styles.Content.Render(state.Content),
	)
	content.WriteString(body)
	content.WriteString("\n")

	if state.StatusMessage != "" {
		content.WriteString(r.styles.StatusWarning.Render(state.StatusMessage))
		content.WriteString("\n")
	}
	content.WriteString(r.styles.Help.Render(state.Help))

	return r.styles.Main.Render(content.String())
}

// RenderVariant renders the dashboard body for v. spinner is shown while loading.
func (r *Renderer) RenderVariant(v viewmodel.RenderVariant, width, chartHeight int, spinner string) string {
	var b strings.Builder

	switch v.Kind {
	case viewmodel.KindLoading:
		b.WriteString(r.styles.StatusLoading.Render(fmt.Sprintf("%s Loading %s...", spinner, v.Label)))
		b.WriteString("\n")
		return b.String()

	case viewmodel.KindStarsChart, viewmodel.KindForksChart:
		for _, c := range v.Charts {
			b.WriteString(r.chartRender.Render(c, width, chartHeight))
		}
		return b.String()
	}

	for i, c := range v.Charts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.chartRender.Render(c, width, chartHeight))
	}
	for _, block := range v.Blocks {
		b.WriteString(r.styles.Divider.Render(strings.Repeat("━", max(width, 1))))
		b.WriteString("\n")
		b.WriteString(r.imageRender.Render(block, width))
	}
	return b.String()
}
