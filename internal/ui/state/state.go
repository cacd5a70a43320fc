package state

import (
	"time"

	"ghforecast/internal/viewmodel"
)

// AppState contains the UI state that is not owned by the selection store
// or the fetch controller
type AppState struct {
	// Last derived variant and the content rendered from it
	Variant  viewmodel.RenderVariant
	Rendered string

	// UI state
	InPagerMode   bool      // help pager owns the terminal
	StatusMessage string    // status bar message
	StatusSetAt   time.Time // when StatusMessage was set
	Discarded     int       // stale responses dropped this session
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Variant: viewmodel.RenderVariant{Kind: viewmodel.KindLoading},
	}
}

// SetStatus replaces the status message
func (s *AppState) SetStatus(msg string, now time.Time) {
	s.StatusMessage = msg
	s.StatusSetAt = now
}

// ClearStatusOlderThan clears the status message when it was set before cutoff
func (s *AppState) ClearStatusOlderThan(cutoff time.Time) bool {
	if s.StatusMessage == "" || s.StatusSetAt.After(cutoff) {
		return false
	}
	s.StatusMessage = ""
	return true
}
