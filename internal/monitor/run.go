package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/miradorstack/enginewatch/internal/engine"
	"github.com/miradorstack/enginewatch/internal/models"
)

// Run lifecycle states.
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateStopped   = "stopped"
	StateCompleted = "completed"
)

// Run lifecycle events.
const (
	EventStart    = "start"
	EventStop     = "stop"
	EventComplete = "complete"
)

const maxRecordedTicks = 1024

// StateListener observes lifecycle transitions.
type StateListener func(run *RunState, from, to string)

// RunState owns everything scoped to one monitoring run: the RPM history,
// the set of alert categories already sent, the active flag and the
// lifecycle state machine. A fresh RunState starts with nothing sent.
type RunState struct {
	ID         string
	Thresholds models.Thresholds
	CreatedAt  time.Time

	history *engine.RPMHistory
	active  atomic.Bool

	mu    sync.Mutex
	sent  map[models.AlertCategory]struct{}
	ticks []models.TickResult

	lifecycle *fsm.FSM
	listener  StateListener
}

func newRunState(thresholds models.Thresholds, historySize int, listener StateListener) *RunState {
	r := &RunState{
		ID:         uuid.NewString(),
		Thresholds: thresholds,
		CreatedAt:  time.Now(),
		history:    engine.NewRPMHistory(historySize),
		sent:       make(map[models.AlertCategory]struct{}),
		listener:   listener,
	}

	events := fsm.Events{
		{Name: EventStart, Src: []string{StateIdle}, Dst: StateRunning},
		{Name: EventStop, Src: []string{StateIdle, StateRunning}, Dst: StateStopped},
		{Name: EventComplete, Src: []string{StateRunning}, Dst: StateCompleted},
	}
	callbacks := fsm.Callbacks{
		"enter_" + StateRunning: func(_ context.Context, _ *fsm.Event) {
			r.active.Store(true)
		},
		"enter_" + StateStopped: func(_ context.Context, _ *fsm.Event) {
			r.active.Store(false)
		},
		"enter_" + StateCompleted: func(_ context.Context, _ *fsm.Event) {
			r.active.Store(false)
		},
		"enter_state": func(_ context.Context, e *fsm.Event) {
			if r.listener != nil {
				r.listener(r, e.Src, e.Dst)
			}
		},
	}
	r.lifecycle = fsm.NewFSM(StateIdle, events, callbacks)
	return r
}

// Active reports whether the scheduler should process another sample.
func (r *RunState) Active() bool {
	return r.active.Load()
}

// State returns the current lifecycle state.
func (r *RunState) State() string {
	return r.lifecycle.Current()
}

// Start moves the run from idle to running.
func (r *RunState) Start(ctx context.Context) error {
	return r.transition(ctx, EventStart)
}

// Stop clears the active flag. The in-flight sample, if any, completes;
// no further samples are processed. Stopping a finished run is a no-op.
func (r *RunState) Stop(ctx context.Context) error {
	if !r.lifecycle.Can(EventStop) {
		return nil
	}
	return r.transition(ctx, EventStop)
}

func (r *RunState) complete(ctx context.Context) error {
	return r.transition(ctx, EventComplete)
}

func (r *RunState) transition(ctx context.Context, event string) error {
	err := r.lifecycle.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}

// ClaimAlert atomically marks category as fired. It returns false when the
// category already fired during this run, whether or not that delivery
// succeeded.
func (r *RunState) ClaimAlert(category models.AlertCategory) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sent[category]; ok {
		return false
	}
	r.sent[category] = struct{}{}
	return true
}

// AlertSent reports whether category already fired.
func (r *RunState) AlertSent(category models.AlertCategory) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sent[category]
	return ok
}

// History exposes the run's RPM window.
func (r *RunState) History() *engine.RPMHistory {
	return r.history
}

// Ticks returns the recorded tick results, oldest first.
func (r *RunState) Ticks() []models.TickResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.TickResult(nil), r.ticks...)
}

func (r *RunState) record(tick models.TickResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, tick)
	if len(r.ticks) > maxRecordedTicks {
		copy(r.ticks[0:], r.ticks[1:])
		r.ticks = r.ticks[:maxRecordedTicks]
	}
}
