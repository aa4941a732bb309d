// Package task runs one slow operation in the background while reporting
// progress at a fixed cadence.
package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/tagnav/internal/process"
)

// State is the lifecycle position of a Task.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// DefaultInterval is the indicator cadence when Options.Interval is zero.
const DefaultInterval = 100 * time.Millisecond

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("task already started")

// Operation is the wrapped work. Success is taken from Result.Success; a
// non-nil error means the work could not be started at all.
type Operation func(ctx context.Context) (process.Result, error)

// Outcome is delivered to OnDone when the task finishes.
type Outcome struct {
	ID      string
	State   State
	Result  process.Result
	Err     error
	Message string
}

// Options configure progress reporting and completion.
type Options struct {
	Interval       time.Duration
	Indicator      Indicator
	SuccessMessage string
	FailureMessage string

	// OnDone is called exactly once, from the worker goroutine, after the
	// terminal state is set. It must not Wait on its own task.
	OnDone func(Outcome)
}

// Task runs an Operation on a single worker goroutine. Once started it
// always runs to completion.
type Task struct {
	id   string
	name string
	op   Operation
	opts Options

	mu     sync.Mutex
	state  State
	result process.Result
	err    error
	done   chan struct{}

	// finished stops the indicator; ticked is closed once it has exited.
	finished chan struct{}
	ticked   chan struct{}
}

// New creates a pending task.
func New(name string, op Operation, opts Options) *Task {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Indicator == nil {
		opts.Indicator = nopIndicator{}
	}
	return &Task{
		id:       uuid.NewString(),
		name:     name,
		op:       op,
		opts:     opts,
		state:    StatePending,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		ticked:   make(chan struct{}),
	}
}

// ID returns the unique task identifier.
func (t *Task) ID() string { return t.id }

// Name returns the label shown by the indicator.
func (t *Task) Name() string { return t.name }

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the operation result. It is the zero Result until the
// task reaches a terminal state.
func (t *Task) Result() process.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Done is closed after the terminal state is set and OnDone has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Start moves the task to Running before returning, then launches the
// worker and the indicator ticker. ctx is handed to the operation.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.state != StatePending {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.state = StateRunning
	t.mu.Unlock()

	go t.tick()
	go t.work(ctx)
	return nil
}

// Wait blocks until the task finishes or ctx is done. Returning early does
// not stop the task.
func (t *Task) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.outcome(), nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (t *Task) work(ctx context.Context) {
	res, err := t.op(ctx)
	success := err == nil && res.Success

	t.mu.Lock()
	t.result = res
	t.err = err
	if success {
		t.state = StateSucceeded
	} else {
		t.state = StateFailed
	}
	t.mu.Unlock()
	close(t.finished)
	<-t.ticked

	out := t.outcome()
	t.opts.Indicator.Finish(out.Message, success)
	if t.opts.OnDone != nil {
		t.opts.OnDone(out)
	}
	close(t.done)
}

// tick drives the indicator until the worker finishes. It shares only the
// finished channel with the worker.
func (t *Task) tick() {
	defer close(t.ticked)
	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-t.finished:
			return
		case <-ticker.C:
			t.opts.Indicator.Tick(t.name, frame)
			frame++
		}
	}
}

func (t *Task) outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg := t.opts.FailureMessage
	if t.state == StateSucceeded {
		msg = t.opts.SuccessMessage
	}
	return Outcome{ID: t.id, State: t.state, Result: t.result, Err: t.err, Message: msg}
}

// RunCommand adapts a process invocation into an Operation. A start failure
// is returned as the operation's error.
func RunCommand(runner process.Runner, cmd process.Command) Operation {
	return func(ctx context.Context) (process.Result, error) {
		return runner.Run(ctx, cmd)
	}
}
