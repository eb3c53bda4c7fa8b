// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"

	"github.com/invowk/cmdhost/pkg/types"
)

type (
	// Next continues with the remaining filters and the command itself.
	Next func(ctx context.Context) (types.ExitCode, error)

	// Filter wraps command execution. A filter that does not call next
	// prevents the command from running.
	Filter interface {
		OnCommandExecution(ctx context.Context, inv *Invocation, next Next) (types.ExitCode, error)
	}

	// FilterFunc adapts a function to Filter.
	FilterFunc func(ctx context.Context, inv *Invocation, next Next) (types.ExitCode, error)

	// FilterProvider is implemented by command types that declare filters for
	// all of their commands. It is called on a zero value of the type.
	FilterProvider interface {
		CommandFilters() []Filter
	}
)

// OnCommandExecution calls f.
func (f FilterFunc) OnCommandExecution(ctx context.Context, inv *Invocation, next Next) (types.ExitCode, error) {
	return f(ctx, inv, next)
}

// Chain runs filters in order around final.
func Chain(ctx context.Context, inv *Invocation, filters []Filter, final Next) (types.ExitCode, error) {
	next := final
	for i := len(filters) - 1; i >= 0; i-- {
		f, inner := filters[i], next
		next = func(ctx context.Context) (types.ExitCode, error) {
			return f.OnCommandExecution(ctx, inv, inner)
		}
	}
	return next(ctx)
}
