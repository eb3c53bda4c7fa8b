// SPDX-License-Identifier: MPL-2.0

// Package dispatch turns raw arguments into an Invocation and hands it to
// the compiled pipeline.
package dispatch

import (
	"context"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/commandline"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/pkg/types"
)

// Dispatcher matches the command a command line addresses and runs it
// through a pipeline handler.
type Dispatcher struct {
	provider command.Provider
	matcher  command.Matcher
	parser   commandline.Parser
}

// New creates a dispatcher over the commands of p.
func New(p command.Provider) *Dispatcher {
	return &Dispatcher{provider: p}
}

// Prepare builds the invocation for args: the command is matched, the
// remaining arguments are parsed against it. Errors are command provider
// failures and *command.CommandNotFoundError.
func (d *Dispatcher) Prepare(args []string) (*pipeline.Invocation, error) {
	coll, err := d.provider.Commands()
	if err != nil {
		return nil, err
	}

	desc, rest, err := d.matcher.Match(coll, args)
	if err != nil {
		return nil, err
	}

	inv := pipeline.NewInvocation(args)
	inv.Commands = coll
	inv.Command = desc
	inv.CommandLine = d.parser.Parse(rest, desc)
	return inv, nil
}

// Dispatch prepares an invocation for args and runs h with it.
func (d *Dispatcher) Dispatch(ctx context.Context, args []string, h pipeline.Handler) (types.ExitCode, error) {
	inv, err := d.Prepare(args)
	if err != nil {
		return types.ExitCodeFailure, err
	}
	return h(ctx, inv)
}
