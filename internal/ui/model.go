package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"ghforecast/internal/backend"
	"ghforecast/internal/catalog"
	"ghforecast/internal/config"
	"ghforecast/internal/domain"
	"ghforecast/internal/eventbus"
	"ghforecast/internal/fetch"
	"ghforecast/internal/selection"
	"ghforecast/internal/ui/state"
	"ghforecast/internal/ui/viewmodels"
	"ghforecast/internal/ui/views"
	"ghforecast/internal/viewmodel"
)

// Layout constants
const (
	sidebarWidth     = 32
	sidebarChrome    = 2 // right border and padding
	horizontalChrome = 3 // main padding and content padding
	verticalChrome   = 5 // title with margin, status and help lines
	statusTimeout    = 3 * time.Second
)

// Deps are the collaborators of the dashboard model
type Deps struct {
	Bus     eventbus.EventBus
	Config  *config.Config
	Catalog *catalog.Catalog
	Fetcher backend.Fetcher
}

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	catalog *catalog.Catalog
	state   *state.AppState

	store      *selection.Store
	controller *fetch.Controller

	// Components
	list     list.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	width  int
	height int

	renderer     *views.Renderer
	viewModel    *viewmodels.ViewModel
	helpRenderer *HelpRenderer
	helpOps      *HelpOps
	now          func() time.Time

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model. Nothing is fetched until Init.
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bus := deps.Bus
	if bus == nil {
		bus = eventbus.NullBus{}
	}

	appState := state.NewAppState()

	l := list.New(catalogItems(deps.Catalog.Entries()), list.NewDefaultDelegate(), sidebarWidth, 20)
	l.Title = "Repositories"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.Select(deps.Catalog.DefaultIndex())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		bus:          bus,
		config:       cfg,
		catalog:      deps.Catalog,
		state:        appState,
		store:        selection.NewStore(bus),
		controller:   fetch.NewController(deps.Fetcher, bus, fetch.WithTimeout(cfg.Backend.Timeout)),
		list:         l,
		spinner:      sp,
		viewport:     viewport.New(60, 20),
		help:         help.New(),
		keys:         defaultKeyMap(),
		renderer:     views.NewRenderer(),
		viewModel:    viewmodels.NewViewModel(appState),
		helpRenderer: NewHelpRenderer(cfg.Aggregates.StarsLabel, cfg.Aggregates.ForksLabel),
		helpOps:      NewHelpOps(),
		now:          time.Now,
	}
	m.refreshContent()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps.SetProgram(p)
}

// Init selects the default entry, which starts the first fetch cycle
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.selectEntry(m.catalog.DefaultSelection()))
}

// Close cancels the outstanding request
func (m *Model) Close() {
	m.controller.Close()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		// Don't continue tick loop if we're in pager mode
		if m.state.InPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.controller.Loading() {
			m.refreshContent()
		}
		return m, cmd

	case fetchResultMsg:
		if !m.controller.Apply(msg.outcome) {
			m.state.Discarded++
			return m, nil
		}
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			log.Printf("Help pager failed: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.state.InPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPagerMode = false
		return m, m.spinner.Tick

	case clearStatusMsg:
		m.state.ClearStatusOlderThan(msg.setAt)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is open every key goes to it
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		return m, m.fetchHelpPager(m.helpRenderer.RenderHelpContentPlain())

	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(catalogItem)
		if !ok {
			return m, nil
		}
		return m, m.trySelect(item.entry)

	case key.Matches(msg, m.keys.Reselect):
		active, ok := m.store.Active()
		if !ok {
			return m, nil
		}
		return m, m.trySelect(active)

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// trySelect starts a cycle for entry unless entries other than the active
// one are locked while a request is outstanding
func (m *Model) trySelect(entry domain.RepositorySelection) tea.Cmd {
	if m.config.UISettings.LockWhileLoading && m.controller.Loading() {
		active, ok := m.store.Active()
		if ok && active.Key != entry.Key {
			return m.setStatus(fmt.Sprintf("Loading %s, please wait", active.Label))
		}
	}
	return m.selectEntry(entry)
}

// selectEntry updates the selection store and begins a fetch cycle. The
// returned command performs the request off the update loop.
func (m *Model) selectEntry(entry domain.RepositorySelection) tea.Cmd {
	snap := m.store.Select(entry)
	ticket, ctx := m.controller.Begin(snap)
	m.refreshContent()

	controller := m.controller
	return func() tea.Msg {
		return fetchResultMsg{outcome: controller.Run(ctx, ticket)}
	}
}

func (m *Model) setStatus(msg string) tea.Cmd {
	setAt := m.now()
	m.state.SetStatus(msg, setAt)
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{setAt: setAt}
	})
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	bodyHeight := max(height-verticalChrome, 3)
	m.list.SetSize(sidebarWidth, bodyHeight)
	m.viewport.Width = max(width-sidebarWidth-sidebarChrome-horizontalChrome, 20)
	m.viewport.Height = bodyHeight
	m.viewModel.SetDimensions(width, height)
	m.refreshContent()
}

// refreshContent derives the render variant from the store and controller
// and re-renders the dashboard pane
func (m *Model) refreshContent() {
	variant := viewmodel.Derive(viewmodel.ContextFor(m.store.Snapshot(), m.controller.State()))
	m.state.Variant = variant
	m.state.Rendered = m.renderer.RenderVariant(variant, m.viewport.Width, m.config.UISettings.ChartHeight, m.spinner.View())
	m.viewport.SetContent(m.state.Rendered)
}

// View renders the dashboard
func (m *Model) View() string {
	if m.state.InPagerMode {
		return ""
	}

	m.viewModel.SetPanes(m.list.View(), m.viewport.View(), m.help.View(m.keys))

	active, _ := m.store.Active()
	return m.renderer.Render(m.viewModel.BuildViewState(
		active.Label,
		m.controller.Loading(),
		m.spinner.View(),
		m.controller.State().Seq,
	))
}

// Variant returns the variant currently shown
func (m *Model) Variant() viewmodel.RenderVariant {
	return m.state.Variant
}
