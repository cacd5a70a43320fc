package export

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ghforecast/internal/domain"
	"ghforecast/internal/viewmodel"
)

// ErrNoChart is returned by WritePNG when the requested chart cannot be drawn
var ErrNoChart = errors.New("nothing to chart")

const (
	pngHeight   = 480
	pngBarWidth = 40
	pngMinWidth = 640
)

var barColor = drawing.ColorFromHex("FFA500")

// WritePNG renders chart index of v as a bar chart
func WritePNG(w io.Writer, v viewmodel.RenderVariant, index int) error {
	if index < 0 || index >= len(v.Charts) {
		return fmt.Errorf("%w: %s has %d chart(s), asked for #%d", ErrNoChart, v.Kind, len(v.Charts), index)
	}
	spec := v.Charts[index]
	if len(spec.Data) == 0 {
		return fmt.Errorf("%w: %q has no data", ErrNoChart, spec.Title)
	}

	bars := make([]chart.Value, 0, len(spec.Data))
	for _, p := range spec.Data {
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	lo, hi := valueRange(spec.Data)
	width := len(bars)*(pngBarWidth*2) + 120
	if width < pngMinWidth {
		width = pngMinWidth
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     pngHeight,
		BarWidth:   pngBarWidth,
		YAxis: chart.YAxis{
			Name:  spec.YAxisText,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// valueRange spans zero and every value, padded by a tenth of the span on
// each side that has bars
func valueRange(data domain.Series) (lo, hi float64) {
	for _, p := range data {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	if hi == lo {
		return lo, lo + 1
	}
	pad := (hi - lo) * 0.1
	if lo < 0 {
		lo -= pad
	}
	if hi > 0 {
		hi += pad
	}
	return lo, hi
}
