// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/commandline"
	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/pkg/types"
)

// Invocation is the mutable state of one run. It is created by the dispatcher,
// filled in by successive layers and owned by that single run.
type Invocation struct {
	ID uuid.UUID
	// Args is the raw argument vector, unmodified.
	Args []string
	// CommandLine is the parse of the arguments that followed the command name.
	CommandLine *commandline.ParsedCommandLine
	Command     *command.Descriptor
	// Commands is the full command set, for help output.
	Commands *command.Collection
	// Params holds the bound parameter struct once the terminal step has bound it.
	Params reflect.Value
	// Err is the fault captured by the exception boundary, if any.
	Err        error
	ExitCode   types.ExitCode
	AppContext *console.AppContext
}

// NewInvocation creates an invocation for args with a fresh ID.
func NewInvocation(args []string) *Invocation {
	return &Invocation{
		ID:   uuid.New(),
		Args: args,
	}
}
