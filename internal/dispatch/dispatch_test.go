// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/pkg/types"
)

type (
	greetParams struct {
		Name string `option:"name"`
	}

	app struct{}
)

func (app) Greet(p greetParams) error { return nil }
func (app) Wave()                     {}

func newDispatcher(commandTypes ...any) *Dispatcher {
	return New(command.NewBuiltInProvider(
		command.NewTypeProvider(commandTypes, command.ProviderOptions{TreatPublicMethodsAsCommands: true}),
		command.BuiltInOptions{},
	))
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	args := []string{"Greet", "--name", "Ada", "--nope"}
	inv, err := newDispatcher(app{}).Prepare(args)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if inv.Command.Name != "Greet" {
		t.Errorf("Command = %q, want Greet", inv.Command.Name)
	}
	if !reflect.DeepEqual(inv.Args, args) {
		t.Errorf("Args = %v, want the raw arguments", inv.Args)
	}
	if got := inv.CommandLine.Values("name"); !reflect.DeepEqual(got, []string{"Ada"}) {
		t.Errorf("name = %v", got)
	}
	if len(inv.CommandLine.UnknownOptions) != 1 {
		t.Errorf("UnknownOptions = %+v", inv.CommandLine.UnknownOptions)
	}
	if inv.Commands == nil || len(inv.Commands.All) != 3 {
		t.Errorf("Commands = %+v", inv.Commands)
	}
}

func TestPrepareCommandNotFound(t *testing.T) {
	t.Parallel()

	_, err := newDispatcher(app{}).Prepare([]string{"Grete"})
	if !errors.Is(err, command.ErrCommandNotFound) {
		t.Errorf("Prepare() error = %v, want ErrCommandNotFound", err)
	}
}

func TestPrepareProviderError(t *testing.T) {
	t.Parallel()

	_, err := newDispatcher(42).Prepare(nil)
	if !errors.Is(err, command.ErrInvalidCommandType) {
		t.Errorf("Prepare() error = %v, want ErrInvalidCommandType", err)
	}
}

func TestDispatchCallsHandler(t *testing.T) {
	t.Parallel()

	var seen *pipeline.Invocation
	code, err := newDispatcher(app{}).Dispatch(context.Background(), []string{"Wave"},
		func(_ context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
			seen = inv
			return 4, nil
		})
	if err != nil || code != 4 {
		t.Fatalf("Dispatch() = (%d, %v), want (4, nil)", code, err)
	}
	if seen == nil || seen.Command.Name != "Wave" {
		t.Errorf("handler saw %+v", seen)
	}
}
