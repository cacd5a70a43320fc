// Package viewmodel maps a fetch state and the active mode to the variant the
// render layer draws. Nothing in here blocks or mutates its inputs.
package viewmodel

import (
	"fmt"

	"ghforecast/internal/domain"
	"ghforecast/internal/selection"
)

// Kind identifies a render variant
type Kind int

const (
	KindLoading Kind = iota
	KindStarsChart
	KindForksChart
	KindIssuesDashboard
)

func (k Kind) String() string {
	switch k {
	case KindStarsChart:
		return "stars_chart"
	case KindForksChart:
		return "forks_chart"
	case KindIssuesDashboard:
		return "issues_dashboard"
	default:
		return "loading"
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ChartSpec is the input of a bar chart widget
type ChartSpec struct {
	Title       string        `json:"title"`
	YAxisText   string        `json:"yaxisText"`
	TooltipText string        `json:"tooltipText"`
	Data        domain.Series `json:"data"`
}

// ImageRef points at one rendered image. URL is empty when the backend
// did not provide one.
type ImageRef struct {
	Caption string `json:"caption"`
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Lazy    bool   `json:"lazy"`
}

// ImageBlock groups related images under a heading
type ImageBlock struct {
	Title  string     `json:"title"`
	Images []ImageRef `json:"images"`
}

// RenderVariant is the output of Derive. Charts and Blocks are empty for Loading.
type RenderVariant struct {
	Kind   Kind         `json:"kind"`
	Label  string       `json:"label"`
	Charts []ChartSpec  `json:"charts,omitempty"`
	Blocks []ImageBlock `json:"blocks,omitempty"`
}

// Context is everything Derive reads
type Context struct {
	State     domain.FetchState
	StarsMode bool
	ForksMode bool
	Label     string
}

// ContextFor builds a Context from the active selection and the fetch state
func ContextFor(snap selection.Snapshot, state domain.FetchState) Context {
	return Context{
		State:     state,
		StarsMode: snap.StarsMode(),
		ForksMode: snap.ForksMode(),
		Label:     snap.Selection.Label,
	}
}

// Derive selects the variant for ctx. It panics when both modes are set,
// which the selection store never produces.
func Derive(ctx Context) RenderVariant {
	if ctx.StarsMode && ctx.ForksMode {
		panic("viewmodel: stars and forks mode are both set")
	}

	v := RenderVariant{Label: ctx.Label}
	if ctx.State.Status == domain.StatusLoading {
		v.Kind = KindLoading
		return v
	}

	p := ctx.State.Payload
	switch {
	case ctx.StarsMode:
		v.Kind = KindStarsChart
		v.Charts = []ChartSpec{{
			Title:       "Star count of every repo",
			YAxisText:   "Stars",
			TooltipText: "Stars",
			Data:        p.StarsCount,
		}}
	case ctx.ForksMode:
		v.Kind = KindForksChart
		v.Charts = []ChartSpec{{
			Title:       "Fork count of every repo",
			YAxisText:   "Forks",
			TooltipText: "Forks",
			Data:        p.ForksCount,
		}}
	default:
		v.Kind = KindIssuesDashboard
		v.Charts = []ChartSpec{
			{
				Title:       fmt.Sprintf("Monthly Created Issues for %s in last 1 year", ctx.Label),
				YAxisText:   "Issues",
				TooltipText: "Issues",
				Data:        p.Created,
			},
			{
				Title:       fmt.Sprintf("Monthly Closed Issues for %s in last 1 year", ctx.Label),
				YAxisText:   "Issues",
				TooltipText: "Issues",
				Data:        p.Closed,
			},
		}
		v.Blocks = issueBlocks(p)
	}
	return v
}

// Chart returns the single chart of a stars or forks variant
func (v RenderVariant) Chart() (ChartSpec, bool) {
	if v.Kind != KindStarsChart && v.Kind != KindForksChart || len(v.Charts) == 0 {
		return ChartSpec{}, false
	}
	return v.Charts[0], true
}

// Images returns every image reference in block order
func (v RenderVariant) Images() []ImageRef {
	var out []ImageRef
	for _, b := range v.Blocks {
		out = append(out, b.Images...)
	}
	return out
}

func issueBlocks(p domain.AnalyticsResult) []ImageBlock {
	insights := ImageBlock{
		Title: "Issue insights",
		Images: []ImageRef{
			image("The day of the week maximum number of issues created",
				p.CreatedAtImageURLs.URL(domain.ImageCreatedMaxDay),
				"Image for The day of the week maximum number of issues created"),
			image("The day of the week maximum number of issues closed",
				p.CreatedAtImageURLs.URL(domain.ImageClosedMaxDay),
				"Image for The day of the week maximum number of issues closed"),
			image("The month of the year that has maximum number of issues closed",
				p.CreatedAtImageURLs.URL(domain.ImageClosedMaxMonth),
				"Image for The month of the year that has maximum number of issues closed"),
		},
	}

	return []ImageBlock{
		insights,
		forecastBlock("Created Issues", p.CreatedAtImageURLs, [3]string{
			"Model Loss for Created Issues",
			"LSTM Generated Data for Created Issues",
			"All Issues Data for Created Issues",
		}),
		forecastBlock("Closed Issues", p.ClosedAtImageURLs, [3]string{
			"Model Loss for Closed Issues",
			"LSTM Generated Data for Closed Issues",
			"All Issues Data for Closed Issues",
		}),
		forecastBlock("Pull Issues", p.PulledAtImageURLs, [3]string{
			"Model Loss for pull Issues",
			"LSTM Generated Data for pull Issues",
			"All Issues Data for pull requests",
		}),
	}
}

// forecastBlock lays out the model loss, generated series and all-data images
func forecastBlock(subject string, b domain.ImageBundle, alts [3]string) ImageBlock {
	return ImageBlock{
		Title: fmt.Sprintf("Timeseries Forecasting of %s using Tensorflow and Keras LSTM based on past month", subject),
		Images: []ImageRef{
			image("Model Loss for "+subject, b.URL(domain.ImageModelLoss), alts[0]),
			image("LSTM Generated Data for "+subject, b.URL(domain.ImageLSTMGenerated), alts[1]),
			image("All Issues Data for "+subject, b.URL(domain.ImageAllIssuesData), alts[2]),
		},
	}
}

func image(caption, url, alt string) ImageRef {
	return ImageRef{Caption: caption, URL: url, Alt: alt, Lazy: true}
}
