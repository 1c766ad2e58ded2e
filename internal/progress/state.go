package progress

import (
	"context"
	"sync"
)

// Outcome is the terminal state of a run.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCancelled
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the shared cancellation latch for one run. A worker's fatal
// error trips the latch and cancels the run context so sibling workers wind
// down before their next row; an external cancellation (signal) cancels the
// context without tripping the latch, which is how the two terminal states
// stay distinguishable.
type State struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	fatal  error
}

// NewState derives the run context and its latch from parent.
func NewState(parent context.Context) (context.Context, *State) {
	ctx, cancel := context.WithCancel(parent)
	return ctx, &State{cancel: cancel}
}

// Fail records the first fatal error and cancels the run.
func (s *State) Fail(err error) {
	s.mu.Lock()
	if s.fatal == nil {
		s.fatal = err
	}
	s.mu.Unlock()
	s.cancel()
}

// FatalErr returns the first recorded fatal error, if any.
func (s *State) FatalErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal
}

// Outcome resolves the terminal state once all workers have returned.
func (s *State) Outcome(parent context.Context) Outcome {
	if s.FatalErr() != nil {
		return OutcomeError
	}
	if parent.Err() != nil {
		return OutcomeCancelled
	}
	return OutcomeSuccess
}
