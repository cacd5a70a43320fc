// Package selection tracks the active catalog entry and the mode it implies.
package selection

import (
	"ghforecast/internal/domain"
	"ghforecast/internal/eventbus"
)

// Snapshot is an immutable view of the store after a Select
type Snapshot struct {
	Selection domain.RepositorySelection
	Mode      domain.Mode
	Revision  uint64 // increments on every Select, including re-selections
}

// StarsMode reports whether the stars aggregate is active
func (s Snapshot) StarsMode() bool { return s.Mode == domain.ModeStars }

// ForksMode reports whether the forks aggregate is active. Never true together with StarsMode.
func (s Snapshot) ForksMode() bool { return s.Mode == domain.ModeForks }

// Store holds the active selection. It has a single writer, the
// orchestration loop, and is not safe for concurrent use.
type Store struct {
	current Snapshot
	bus     eventbus.EventBus
}

// NewStore creates a store with nothing selected
func NewStore(bus eventbus.EventBus) *Store {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &Store{bus: bus}
}

// Select makes entry the active selection. Selecting the entry that is
// already active is not deduplicated: it yields a new revision, and the
// caller is expected to start a new fetch cycle.
func (s *Store) Select(entry domain.RepositorySelection) Snapshot {
	s.current = Snapshot{
		Selection: entry,
		Mode:      entry.Mode,
		Revision:  s.current.Revision + 1,
	}

	s.bus.Publish(eventbus.SelectionChangedEvent{
		Selection: entry,
		Revision:  s.current.Revision,
	})

	return s.current
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot { return s.current }

// Active returns the active entry and whether anything has been selected yet
func (s *Store) Active() (domain.RepositorySelection, bool) {
	return s.current.Selection, s.current.Revision > 0
}

// StarsMode reports whether the stars aggregate is active
func (s *Store) StarsMode() bool { return s.current.StarsMode() }

// ForksMode reports whether the forks aggregate is active
func (s *Store) ForksMode() bool { return s.current.ForksMode() }
