package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"ghforecast/internal/viewmodel"
)

const minChartHeight = 4

// ChartRenderer draws chart specs as terminal bar charts
type ChartRenderer struct {
	styles *Styles
}

// NewChartRenderer creates a new chart renderer
func NewChartRenderer(styles *Styles) *ChartRenderer {
	return &ChartRenderer{styles: styles}
}

// Render draws the chart within width columns and height rows of bars, followed by
// a legend with the exact values
func (r *ChartRenderer) Render(c viewmodel.ChartSpec, width, height int) string {
	var b strings.Builder
	b.WriteString(r.styles.ChartTitle.Render(c.Title))
	b.WriteString("\n")

	if len(c.Data) == 0 {
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("  No %s data", strings.ToLower(c.YAxisText))))
		b.WriteString("\n")
		return b.String()
	}

	if height < minChartHeight {
		height = minChartHeight
	}
	if width < len(c.Data)*2 {
		width = len(c.Data) * 2
	}

	bars := make([]barchart.BarData, 0, len(c.Data))
	for _, p := range c.Data {
		bars = append(bars, barchart.BarData{
			Label:  p.Label,
			Values: []barchart.BarValue{
				{Name: c.TooltipText, Value: p.Value, Style: r.styles.Bar},
			},
		})
	}

	chart := barchart.New(width, height,
		barchart.WithStyles(r.styles.Axis, r.styles.AxisLabel))
	chart.PushAll(bars)
	chart.Draw()

	b.WriteString(chart.View())
	b.WriteString("\n")
	b.WriteString(r.legend(c))
	return b.String()
}

// legend lists the exact value of every bar
func (r *ChartRenderer) legend(c viewmodel.ChartSpec) string {
	parts := make([]string, 0, len(c.Data))
	for _, p := range c.Data {
		parts = append(parts, fmt.Sprintf("%s %s",
			r.styles.Caption.Render(p.Label),
			r.styles.Bar.Render(strconv.FormatFloat(p.Value, 'f', -1, 64))))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(
		r.styles.Dim.Render(c.YAxisText+": ") + strings.Join(parts, r.styles.Dim.Render(" · "))) + "\n"
}
