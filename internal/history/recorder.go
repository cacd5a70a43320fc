package history

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"ghforecast/internal/domain"
	"ghforecast/internal/eventbus"
)

const appendTimeout = 5 * time.Second

// Recorder appends one row per finished fetch cycle
type Recorder struct {
	store     *Store
	sessionID string
	unsubs    []func()
}

// NewRecorder subscribes to completed and discarded fetches on bus
func NewRecorder(store *Store, bus eventbus.EventBus) *Recorder {
	r := &Recorder{store: store, sessionID: uuid.NewString()}
	r.unsubs = append(r.unsubs,
		bus.Subscribe(eventbus.EventFetchCompleted, r.handle),
		bus.Subscribe(eventbus.EventFetchDiscarded, r.handle),
	)
	return r
}

// SessionID identifies the rows written by this recorder
func (r *Recorder) SessionID() string { return r.sessionID }

// Stop unsubscribes from the bus
func (r *Recorder) Stop() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}

func (r *Recorder) handle(event eventbus.DomainEvent) {
	var e Entry
	switch ev := event.(type) {
	case eventbus.FetchCompletedEvent:
		e = r.entry(ev.Seq, ev.Selection, ev.StartedAt, ev.Duration, ev.Err)
		if ev.Err != nil {
			e.Outcome = OutcomeFailed
		}
	case eventbus.FetchDiscardedEvent:
		e = r.entry(ev.Seq, ev.Selection, ev.StartedAt, ev.Duration, ev.Err)
		e.Outcome = OutcomeStale
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := r.store.Append(ctx, e); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (r *Recorder) entry(seq uint64, sel domain.RepositorySelection, startedAt time.Time, d time.Duration, err error) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		SessionID:  r.sessionID,
		Seq:        seq,
		Repository: sel.Key,
		Label:      sel.Label,
		Mode:       sel.Mode.String(),
		Outcome:    OutcomeOK,
		StartedAt:  startedAt,
		Duration:   d,
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
