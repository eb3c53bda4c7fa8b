// SPDX-License-Identifier: MPL-2.0

package runstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrTransition is the sentinel error wrapped by TransitionError.
var ErrTransition = errors.New("invalid state transition")

type (
	// TransitionError is returned when a transition is attempted from the wrong state.
	TransitionError struct {
		From State
		To   State
	}

	// Machine tracks the lifecycle of one run. A Machine is single-use:
	// once it reaches a terminal state it never leaves it.
	Machine struct {
		state atomic.Int32

		mu      sync.Mutex
		lastErr error

		doneCh     chan struct{}
		onChange   func(from, to State)
		doneClosed sync.Once
	}
)

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}

// Unwrap returns ErrTransition for errors.Is() compatibility.
func (e *TransitionError) Unwrap() error { return ErrTransition }

// New creates a Machine in StateBuilt.
func New(opts ...Option) *Machine {
	m := &Machine{doneCh: make(chan struct{})}
	m.state.Store(int32(StateBuilt))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state (atomic, lock-free read).
func (m *Machine) State() State {
	return State(m.state.Load())
}

// Done returns a channel closed when the machine reaches a terminal state.
func (m *Machine) Done() <-chan struct{} {
	return m.doneCh
}

// LastError returns the error that caused StateFailed, or nil.
func (m *Machine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Begin moves from Built to Running. If ctx is already cancelled the
// machine moves to Cancelled instead and the context error is returned.
func (m *Machine) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if m.transition(StateBuilt, StateCancelled) {
			return fmt.Errorf("cancelled before start: %w", err)
		}
		return &TransitionError{From: m.State(), To: StateRunning}
	}
	if !m.transition(StateBuilt, StateRunning) {
		return &TransitionError{From: m.State(), To: StateRunning}
	}
	return nil
}

// Complete moves from Running to Completed. It reports false when the run
// already ended, e.g. because cancellation won the race.
func (m *Machine) Complete() bool {
	return m.transition(StateRunning, StateCompleted)
}

// Cancel moves from Running to Cancelled. It reports false when the run
// already ended.
func (m *Machine) Cancel() bool {
	return m.transition(StateRunning, StateCancelled)
}

// Fail moves from Built or Running to Failed and records err.
func (m *Machine) Fail(err error) bool {
	for {
		cur := m.State()
		if cur != StateBuilt && cur != StateRunning {
			return false
		}
		m.mu.Lock()
		if !m.state.CompareAndSwap(int32(cur), int32(StateFailed)) {
			m.mu.Unlock()
			continue
		}
		m.lastErr = err
		m.mu.Unlock()
		m.changed(cur, StateFailed)
		return true
	}
}

func (m *Machine) transition(from, to State) bool {
	if !m.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	m.changed(from, to)
	return true
}

func (m *Machine) changed(from, to State) {
	if m.onChange != nil {
		m.onChange(from, to)
	}
	if to.IsTerminal() {
		m.doneClosed.Do(func() { close(m.doneCh) })
	}
}
