// SPDX-License-Identifier: MPL-2.0

package cmdhost

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/config"
	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/internal/core/runstate"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

type (
	// Context is the per-run application context a command may take as a
	// parameter, or read with FromContext.
	Context = console.AppContext
	// Console holds the run's output, error and input streams.
	Console = console.Console
	// Options configures a host.
	Options = config.Options
	// LoadOptions selects an options file and environment prefix.
	LoadOptions = config.LoadOptions
	// Registry holds the host's singleton services.
	Registry = registry.Registry
	// Filter wraps the invocation of a command.
	Filter = pipeline.Filter
	// FilterFunc adapts a function to Filter.
	FilterFunc = pipeline.FilterFunc
	// Next continues the invocation inside a Filter.
	Next = pipeline.Next
	// Invocation is the state of one dispatch.
	Invocation = pipeline.Invocation
	// Metadata describes a command in CommandMetadata.
	Metadata = command.Metadata
	// State is a host lifecycle state.
	State = runstate.State
)

// Host lifecycle states.
const (
	StateBuilt     = runstate.StateBuilt
	StateRunning   = runstate.StateRunning
	StateCompleted = runstate.StateCompleted
	StateCancelled = runstate.StateCancelled
	StateFailed    = runstate.StateFailed
)

// FromContext returns the app context of the current run.
func FromContext(ctx context.Context) (*Context, bool) {
	return console.FromContext(ctx)
}

// Provide registers instance under its static type T.
func Provide[T any](r *Registry, instance T) error {
	return registry.Provide(r, instance)
}

// ProvideFactory registers a lazily evaluated singleton under T.
func ProvideFactory[T any](r *Registry, factory func(r *Registry) (T, error)) error {
	return registry.ProvideFactory(r, factory)
}

// Resolve returns the service registered under T.
func Resolve[T any](r *Registry) (T, error) {
	return registry.Resolve[T](r)
}

// RunContext builds a host with default options, named after the running
// executable, and runs args with it.
func RunContext(ctx context.Context, args []string, commandTypes ...any) (Result, error) {
	h, err := defaultBuilder(commandTypes).Build(ctx)
	if err != nil {
		return Result{ExitCode: types.ExitCodeFailure, State: StateFailed, Err: err}, err
	}
	return h.RunContext(ctx, args)
}

// Run builds a host with default options, runs args until the command
// returns or the process is interrupted, and exits the process.
func Run(args []string, commandTypes ...any) {
	h, err := defaultBuilder(commandTypes).Build(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(int(types.ExitCodeFailure))
	}
	os.Exit(int(h.Run(args)))
}

func defaultBuilder(commandTypes []any) *HostBuilder {
	name := filepath.Base(os.Args[0])
	return NewBuilder(commandTypes...).Configure(func(o *Options) {
		if name != "" && name != "." {
			o.ApplicationName = name
		}
	})
}
