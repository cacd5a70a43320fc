// Package fetch drives the Loading -> Ready cycle of one backend request per
// selection.
package fetch

import (
	"context"
	"log"
	"time"

	"ghforecast/internal/backend"
	"ghforecast/internal/domain"
	"ghforecast/internal/eventbus"
	"ghforecast/internal/selection"
)

// Ticket identifies one request issued by Begin
type Ticket struct {
	Seq       uint64
	Selection domain.RepositorySelection
	Request   backend.Request
	StartedAt time.Time
}

// Outcome is the result of running a ticket
type Outcome struct {
	Ticket   Ticket
	Payload  domain.AnalyticsResult
	Err      error
	Duration time.Duration
}

// Controller owns the fetch state machine. Begin, Apply and State must be
// called from one goroutine; Run may be called from any goroutine.
type Controller struct {
	fetcher backend.Fetcher
	bus     eventbus.EventBus
	timeout time.Duration
	now     func() time.Time

	state    domain.FetchState
	selected domain.RepositorySelection
	latest   uint64
	cancel   context.CancelFunc
}

// Option configures a Controller
type Option func(*Controller)

// WithTimeout bounds each request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller in the Loading state with no request issued
func NewController(fetcher backend.Fetcher, bus eventbus.EventBus, opts ...Option) *Controller {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	c := &Controller{
		fetcher: fetcher,
		bus:     bus,
		now:     time.Now,
		state:   domain.FetchState{Status: domain.StatusLoading},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a new cycle for snap. The controller enters Loading before
// any request is issued, and the context of the previous in-flight request
// is cancelled.
func (c *Controller) Begin(snap selection.Snapshot) (Ticket, context.Context) {
	if c.cancel != nil {
		c.cancel()
	}

	c.latest++
	t := Ticket{
		Seq:       c.latest,
		Selection: snap.Selection,
		Request:   backend.RequestFor(snap.Selection),
		StartedAt: c.now(),
	}

	var ctx context.Context
	if c.timeout > 0 {
		ctx, c.cancel = context.WithTimeout(context.Background(), c.timeout)
	} else {
		ctx, c.cancel = context.WithCancel(context.Background())
	}

	c.selected = snap.Selection
	c.state = domain.FetchState{Status: domain.StatusLoading, Seq: t.Seq}

	c.bus.Publish(eventbus.FetchStartedEvent{
		Seq:       t.Seq,
		Selection: t.Selection,
		StartedAt: t.StartedAt,
	})
	return t, ctx
}

// Run performs the blocking request for t. It does not touch controller state.
func (c *Controller) Run(ctx context.Context, t Ticket) Outcome {
	payload, err := c.fetcher.Fetch(ctx, t.Request)
	return Outcome{
		Ticket:   t,
		Payload:  payload,
		Err:      err,
		Duration: c.now().Sub(t.StartedAt),
	}
}

// Apply moves the controller to Ready with the outcome. Outcomes of requests
// superseded by a later Begin are discarded and Apply returns false. Failed
// requests are applied as an empty payload.
func (c *Controller) Apply(o Outcome) bool {
	seq := o.Ticket.Seq
	if seq != c.latest {
		log.Printf("Discarding stale response for %s (seq %d, latest %d)", o.Ticket.Selection.Key, seq, c.latest)
		c.bus.Publish(eventbus.FetchDiscardedEvent{
			Seq:       seq,
			LatestSeq: c.latest,
			Selection: o.Ticket.Selection,
			StartedAt: o.Ticket.StartedAt,
			Duration:  o.Duration,
			Err:       o.Err,
		})
		return false
	}

	payload := o.Payload
	if o.Err != nil {
		log.Printf("Fetch failed for %s (seq %d): %v", o.Ticket.Selection.Key, seq, o.Err)
		payload = domain.AnalyticsResult{}
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = domain.FetchState{
		Status:  domain.StatusReady,
		Payload: payload,
		Seq:     seq,
		Err:     o.Err,
	}

	c.bus.Publish(eventbus.FetchCompletedEvent{
		Seq:       seq,
		Selection: o.Ticket.Selection,
		StartedAt: o.Ticket.StartedAt,
		Duration:  o.Duration,
		Err:       o.Err,
	})
	return true
}

// Fetch runs a full cycle synchronously: Begin, Run and Apply
func (c *Controller) Fetch(snap selection.Snapshot) domain.FetchState {
	t, ctx := c.Begin(snap)
	c.Apply(c.Run(ctx, t))
	return c.state
}

// State returns the current fetch state
func (c *Controller) State() domain.FetchState { return c.state }

// Selection returns the entry of the latest issued request
func (c *Controller) Selection() domain.RepositorySelection { return c.selected }

// Loading reports whether a request is outstanding
func (c *Controller) Loading() bool { return c.state.Status == domain.StatusLoading }

// Close cancels any outstanding request
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
