package ui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghforecast/internal/backend"
	"ghforecast/internal/catalog"
	"ghforecast/internal/config"
	"ghforecast/internal/domain"
	"ghforecast/internal/viewmodel"
)

type fakeFetcher struct {
	mu       sync.Mutex
	requests []backend.Request
	results  map[string]domain.AnalyticsResult
	err      error
}

func (f *fakeFetcher) Fetch(ctx context.Context, req backend.Request) (domain.AnalyticsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return domain.AnalyticsResult{}, f.err
	}
	return f.results[req.Repository], nil
}

func newTestModel(t *testing.T, lock bool, f *fakeFetcher) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UISettings.LockWhileLoading = lock
	cat, err := catalog.FromConfig(cfg)
	require.NoError(t, err)

	m := NewModel(Deps{Config: cfg, Catalog: cat, Fetcher: f})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// fetchResults runs cmd and returns the fetch results it produces, expanding batches
func fetchResults(cmd tea.Cmd) []fetchResultMsg {
	if cmd == nil {
		return nil
	}
	var out []fetchResultMsg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, fetchResults(c)...)
		}
	case fetchResultMsg:
		out = append(out, msg)
	}
	return out
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestInitStartsFirstCycleWithDefaultEntry(t *testing.T) {
	f := &fakeFetcher{results: map[string]domain.AnalyticsResult{
		"openai/openai-cookbook": {Created: domain.Series{{Label: "2024-01", Value: 3}}},
	}}
	m := newTestModel(t, true, f)

	cmd := m.Init()
	assert.Equal(t, viewmodel.KindLoading, m.Variant().Kind)
	assert.True(t, m.controller.Loading())

	results := fetchResults(cmd)
	require.Len(t, results, 1)
	m.Update(results[0])

	v := m.Variant()
	assert.Equal(t, viewmodel.KindIssuesDashboard, v.Kind)
	assert.Equal(t, "OpenAI cookbook", v.Label)
	require.Len(t, f.requests, 1)
	assert.Equal(t, backend.Request{Repository: "openai/openai-cookbook"}, f.requests[0])

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Timeseries Forecasting")
	assert.Contains(t, out, "Monthly Created Issues for OpenAI cookbook in last 1 year")
}

func TestSelectingAggregateRequestsStars(t *testing.T) {
	f := &fakeFetcher{results: map[string]domain.AnalyticsResult{}}
	m := newTestModel(t, true, f)
	m.Update(fetchResults(m.Init())[0])

	idx := -1
	for i, e := range m.catalog.Entries() {
		if e.Mode == domain.ModeStars {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	m.list.Select(idx)

	_, cmd := m.Update(enter())
	assert.Equal(t, viewmodel.KindLoading, m.Variant().Kind)
	m.Update(fetchResults(cmd)[0])

	assert.Equal(t, viewmodel.KindStarsChart, m.Variant().Kind)
	last := f.requests[len(f.requests)-1]
	assert.True(t, last.StarlistStatus)
	assert.False(t, last.ForklistStatus)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	f := &fakeFetcher{results: map[string]domain.AnalyticsResult{
		"openai/openai-cookbook": {Created: domain.Series{{Label: "old", Value: 1}}},
		"elastic/elasticsearch":  {Created: domain.Series{{Label: "new", Value: 2}}},
	}}
	m := newTestModel(t, false, f)

	first := m.Init()
	m.list.Select(1)
	_, second := m.Update(enter())

	newer := fetchResults(second)
	older := fetchResults(first)
	require.Len(t, newer, 1)
	require.Len(t, older, 1)

	m.Update(newer[0])
	m.Update(older[0])

	v := m.Variant()
	assert.Equal(t, "Elastic search", v.Label)
	assert.Equal(t, "new", v.Charts[0].Data[0].Label)
	assert.Equal(t, 1, m.state.Discarded)
}

func TestLockWhileLoadingRejectsOtherEntries(t *testing.T) {
	f := &fakeFetcher{results: map[string]domain.AnalyticsResult{}}
	m := newTestModel(t, true, f)
	m.Init()

	m.list.Select(1)
	_, cmd := m.Update(enter())
	assert.NotNil(t, cmd, "status clear is scheduled")
	assert.Equal(t, uint64(1), m.controller.State().Seq)
	assert.Equal(t, "OpenAI cookbook", m.controller.Selection().Label)
	assert.Equal(t, "Loading OpenAI cookbook, please wait", m.state.StatusMessage)
	assert.Contains(t, ansi.Strip(m.View()), "please wait")
}

func TestReselectWhileLoadingStartsNewCycle(t *testing.T) {
	f := &fakeFetcher{results: map[string]domain.AnalyticsResult{}}
	m := newTestModel(t, true, f)
	first := m.Init()

	_, cmd := m.Update(runeKey('r'))
	require.NotNil(t, cmd)
	assert.Equal(t, uint64(2), m.controller.State().Seq)

	m.Update(fetchResults(first)[0])
	assert.True(t, m.controller.Loading(), "superseded result must not end the new cycle")

	m.Update(fetchResults(cmd)[0])
	assert.False(t, m.controller.Loading())
}

func TestFailureRendersEmptyDashboard(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	m := newTestModel(t, true, f)
	m.Update(fetchResults(m.Init())[0])

	v := m.Variant()
	assert.Equal(t, viewmodel.KindIssuesDashboard, v.Kind)
	assert.Empty(t, v.Charts[0].Data)
	assert.Empty(t, m.state.StatusMessage)
}

func TestClearStatusKeepsNewerMessage(t *testing.T) {
	m := newTestModel(t, true, &fakeFetcher{})
	m.Init()
	m.list.Select(1)
	m.Update(enter())
	first := m.state.StatusSetAt

	m.state.SetStatus("newer", first.Add(1))
	m.Update(clearStatusMsg{setAt: first})
	assert.Equal(t, "newer", m.state.StatusMessage)

	m.Update(clearStatusMsg{setAt: first.Add(1)})
	assert.Empty(t, m.state.StatusMessage)
}

func TestPagerModeBlanksView(t *testing.T) {
	m := newTestModel(t, true, &fakeFetcher{})
	m.Update(pauseRenderingMsg{})
	assert.True(t, m.state.InPagerMode)
	assert.Empty(t, m.View())
	m.Update(resumeRenderingMsg{})
	assert.False(t, m.state.InPagerMode)
	assert.NotEmpty(t, m.View())
}
