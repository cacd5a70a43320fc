package ui

import (
	"time"

	"ghforecast/internal/fetch"
)

// fetchResultMsg carries the outcome of a backend request back to the update loop
type fetchResultMsg struct {
	outcome fetch.Outcome
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// clearStatusMsg clears the status bar unless a newer message replaced it
type clearStatusMsg struct {
	setAt time.Time
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
