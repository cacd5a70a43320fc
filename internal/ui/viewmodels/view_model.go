package viewmodels

import (
	"ghforecast/internal/ui/state"
	"ghforecast/internal/ui/views"
)

// ViewModel transforms application state into view-ready data
type ViewModel struct {
	state  *state.AppState
	width  int
	height int

	sidebar string
	content string
	help    string
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState) *ViewModel {
	return &ViewModel{state: appState}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
}

// SetPanes sets the rendered catalog list, dashboard viewport and key help
func (vm *ViewModel) SetPanes(sidebar, content, help string) {
	vm.sidebar = sidebar
	vm.content = content
	vm.help = help
}

// BuildViewState creates a ViewState for rendering. activeLabel is empty
// before the first selection.
func (vm *ViewModel) BuildViewState(activeLabel string, loading bool, spinner string, seq uint64) views.ViewState {
	return views.ViewState{
		Width:         vm.width,
		Height:        vm.height,
		Sidebar:       vm.sidebar,
		Content:       vm.content,
		Help:          vm.help,
		ActiveLabel:   activeLabel,
		Loading:       loading,
		Spinner:       spinner,
		StatusMessage: vm.state.StatusMessage,
		Seq:           seq,
	}
}
