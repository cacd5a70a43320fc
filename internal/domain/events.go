package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSelectionChanged EventType = "SelectionChanged"
	EventFetchStarted     EventType = "FetchStarted"
	EventFetchCompleted   EventType = "FetchCompleted"
	EventFetchDiscarded   EventType = "FetchDiscarded"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SelectionChangedEvent is emitted every time an entry is selected, including re-selections
type SelectionChangedEvent struct {
	Selection RepositorySelection
	Revision  uint64
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// FetchStartedEvent is emitted when the controller enters Loading
type FetchStartedEvent struct {
	Seq       uint64
	Selection RepositorySelection
	StartedAt time.Time
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// FetchCompletedEvent is emitted when an outcome is applied and the controller is Ready
type FetchCompletedEvent struct {
	Seq       uint64
	Selection RepositorySelection
	StartedAt time.Time
	Duration  time.Duration
	Err       error // nil on success; the applied payload is empty otherwise
}

func (e FetchCompletedEvent) Type() EventType { return EventFetchCompleted }

// FetchDiscardedEvent is emitted when a stale outcome arrives after a newer request was issued
type FetchDiscardedEvent struct {
	Seq       uint64
	LatestSeq uint64
	Selection RepositorySelection
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

func (e FetchDiscardedEvent) Type() EventType { return EventFetchDiscarded }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path         string
	Repositories int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
