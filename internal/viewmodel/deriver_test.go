package viewmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghforecast/internal/catalog"
	"ghforecast/internal/domain"
	"ghforecast/internal/selection"
)

func ready(p domain.AnalyticsResult) domain.FetchState {
	return domain.FetchState{Status: domain.StatusReady, Payload: p}
}

func TestLoadingIgnoresMode(t *testing.T) {
	for _, ctx := range []Context{
		{State: domain.FetchState{Status: domain.StatusLoading}},
		{State: domain.FetchState{Status: domain.StatusLoading}, StarsMode: true},
		{State: domain.FetchState{Status: domain.StatusLoading}, ForksMode: true},
	} {
		v := Derive(ctx)
		assert.Equal(t, KindLoading, v.Kind)
		assert.Empty(t, v.Charts)
		assert.Empty(t, v.Blocks)
	}
}

func TestStarsChart(t *testing.T) {
	data := domain.Series{{Label: "repoA", Value: 5}, {Label: "repoB", Value: 10}}
	v := Derive(Context{State: ready(domain.AnalyticsResult{StarsCount: data}), StarsMode: true})

	assert.Equal(t, KindStarsChart, v.Kind)
	chart, ok := v.Chart()
	require.True(t, ok)
	assert.Equal(t, ChartSpec{
		Title:       "Star count of every repo",
		YAxisText:   "Stars",
		TooltipText: "Stars",
		Data:        data,
	}, chart)
	assert.Empty(t, v.Blocks)
}

func TestForksChart(t *testing.T) {
	data := domain.Series{{Label: "repoA", Value: 3}, {Label: "repoB", Value: 7}}
	v := Derive(Context{
		State:     ready(domain.AnalyticsResult{ForksCount: data, StarsCount: domain.Series{{Label: "x", Value: 1}}}),
		ForksMode: true,
	})

	assert.Equal(t, KindForksChart, v.Kind)
	chart, ok := v.Chart()
	require.True(t, ok)
	assert.Equal(t, "Fork count of every repo", chart.Title)
	assert.Equal(t, "Forks", chart.YAxisText)
	assert.Equal(t, data, chart.Data)
}

func TestIssuesDashboard(t *testing.T) {
	created := domain.Series{{Label: "2024-01", Value: 12}}
	closed := domain.Series{{Label: "2024-01", Value: 4}}
	v := Derive(Context{
		State: ready(domain.AnalyticsResult{
			Created: created,
			Closed:  closed,
			CreatedAtImageURLs: domain.ImageBundle{
				domain.ImageModelLoss:     "https://img/c-loss.png",
				domain.ImageCreatedMaxDay: "https://img/c-day.png",
			},
			PulledAtImageURLs: domain.ImageBundle{domain.ImageAllIssuesData: "https://img/p-all.png"},
		}),
		Label: "OpenAI python",
	})

	assert.Equal(t, KindIssuesDashboard, v.Kind)
	require.Len(t, v.Charts, 2)
	assert.Equal(t, "Monthly Created Issues for OpenAI python in last 1 year", v.Charts[0].Title)
	assert.Equal(t, created, v.Charts[0].Data)
	assert.Equal(t, "Monthly Closed Issues for OpenAI python in last 1 year", v.Charts[1].Title)
	assert.Equal(t, closed, v.Charts[1].Data)

	_, ok := v.Chart()
	assert.False(t, ok)

	require.Len(t, v.Blocks, 4)
	assert.Equal(t, "Issue insights", v.Blocks[0].Title)
	assert.Equal(t, "https://img/c-day.png", v.Blocks[0].Images[0].URL)

	createdBlock := v.Blocks[1]
	require.Len(t, createdBlock.Images, 3)
	assert.Equal(t, ImageRef{
		Caption: "Model Loss for Created Issues",
		URL:     "https://img/c-loss.png",
		Alt:     "Model Loss for Created Issues",
		Lazy:    true,
	}, createdBlock.Images[0])
	assert.Empty(t, createdBlock.Images[1].URL)

	assert.Empty(t, v.Blocks[2].Images[0].URL, "closed bundle omitted")
	assert.Equal(t, "https://img/p-all.png", v.Blocks[3].Images[2].URL)
	assert.Equal(t, "All Issues Data for pull requests", v.Blocks[3].Images[2].Alt)

	// three forecast blocks of three images plus three insights
	assert.Len(t, v.Images(), 12)
}

func TestEmptyPayloadStillDerivesDashboard(t *testing.T) {
	v := Derive(Context{State: ready(domain.AnalyticsResult{}), Label: "pymilvus"})

	assert.Equal(t, KindIssuesDashboard, v.Kind)
	for _, c := range v.Charts {
		assert.Empty(t, c.Data)
	}
	for _, img := range v.Images() {
		assert.Empty(t, img.URL)
		assert.NotEmpty(t, img.Alt)
	}
}

func TestBothModesPanics(t *testing.T) {
	assert.Panics(t, func() {
		Derive(Context{State: ready(domain.AnalyticsResult{}), StarsMode: true, ForksMode: true})
	})
}

func TestContextForUsesSnapshot(t *testing.T) {
	forks, _ := catalog.Default().At(6)
	snap := selection.NewStore(nil).Select(forks)

	ctx := ContextFor(snap, ready(domain.AnalyticsResult{}))
	assert.True(t, ctx.ForksMode)
	assert.False(t, ctx.StarsMode)
	assert.Equal(t, "Fork count of all repos", ctx.Label)
	assert.Equal(t, KindForksChart, Derive(ctx).Kind)
}

func TestVariantJSONUsesKindName(t *testing.T) {
	raw, err := json.Marshal(Derive(Context{State: ready(domain.AnalyticsResult{}), StarsMode: true}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"kind":"stars_chart"`)
}
