// SPDX-License-Identifier: MPL-2.0

package runstate

const (
	// StateBuilt indicates the pipeline is compiled and Run has not been called.
	StateBuilt State = iota
	// StateRunning indicates the pipeline is executing.
	StateRunning
	// StateCompleted is terminal: the pipeline returned and the exit code is available.
	StateCompleted
	// StateCancelled is terminal: cancellation was observed before completion.
	StateCancelled
	// StateFailed is terminal: the run could not be carried out.
	StateFailed
)

// State represents the lifecycle state of a host.
type State int32

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the state is Completed, Cancelled or Failed.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}
