// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/invowk/cmdhost/internal/binder"
	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// injectTag marks command struct fields resolved from the registry on activation.
const injectTag = "inject"

// ErrBuiltInNotInvocable is returned when a built-in descriptor reaches the terminal step.
var ErrBuiltInNotInvocable = errors.New("built-in command cannot be invoked")

// Invoker is the terminal step: it activates the command type, binds the
// parameters and calls the command method.
type Invoker struct {
	registry *registry.Registry
	binder   *binder.Binder
}

// NewInvoker creates the terminal step over r. The binder is resolved from r
// when registered.
func NewInvoker(r *registry.Registry) *Invoker {
	b, err := registry.Resolve[*binder.Binder](r)
	if err != nil {
		b = binder.New()
	}
	return &Invoker{registry: r, binder: b}
}

// Invoke runs the invocation's command.
func (iv *Invoker) Invoke(ctx context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
	d := inv.Command
	if d.IsBuiltIn() {
		return types.ExitCodeFailure, fmt.Errorf("%w: %s", ErrBuiltInNotInvocable, d.Name)
	}

	params, err := iv.binder.Bind(d, inv.CommandLine)
	if err != nil {
		return types.ExitCodeFailure, err
	}
	inv.Params = params

	recv, err := iv.activate(d.Type)
	if err != nil {
		return types.ExitCodeFailure, err
	}

	args := make([]reflect.Value, 0, len(d.Inputs))
	for _, in := range d.Inputs {
		v, err := iv.argument(ctx, inv, in)
		if err != nil {
			return types.ExitCodeFailure, err
		}
		args = append(args, v)
	}

	out := recv.MethodByName(d.MethodName).Call(args)
	code, err := result(d.Output, out)
	inv.ExitCode = code
	return code, err
}

// activate returns a pointer to an instance of t: the registered instance
// when t or *t is a registry key, else a new value with inject fields set.
func (iv *Invoker) activate(t reflect.Type) (reflect.Value, error) {
	pt := reflect.PointerTo(t)
	switch {
	case iv.registry.Has(pt):
		inst, err := iv.registry.Resolve(pt)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(inst), nil
	case iv.registry.Has(t):
		inst, err := iv.registry.Resolve(t)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t)
		ptr.Elem().Set(reflect.ValueOf(inst))
		return ptr, nil
	}

	ptr := reflect.New(t)
	elem := ptr.Elem()
	for i := range t.NumField() {
		f := t.Field(i)
		if _, ok := f.Tag.Lookup(injectTag); !ok || !f.IsExported() {
			continue
		}
		svc, err := iv.registry.Resolve(f.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("inject %s.%s: %w", t, f.Name, err)
		}
		elem.Field(i).Set(reflect.ValueOf(svc))
	}
	return ptr, nil
}

func (iv *Invoker) argument(ctx context.Context, inv *pipeline.Invocation, in command.Input) (reflect.Value, error) {
	switch in.Kind {
	case command.InContext:
		return reflect.ValueOf(&ctx).Elem(), nil
	case command.InParams:
		return inv.Params, nil
	case command.InAmbient:
		ac := inv.AppContext
		if ac == nil {
			ac = &console.AppContext{ID: inv.ID, Command: inv.Command, Context: ctx}
		}
		switch in.Type {
		case reflect.TypeFor[*console.AppContext]():
			return reflect.ValueOf(ac), nil
		case reflect.TypeFor[*console.Console]():
			return reflect.ValueOf(ac.Console), nil
		case reflect.TypeFor[*log.Logger]():
			return reflect.ValueOf(ac.Logger), nil
		}
		return reflect.Value{}, fmt.Errorf("no ambient value of type %s", in.Type)
	case command.InService:
		svc, err := iv.registry.Resolve(in.Type)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(svc), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported input kind %d", in.Kind)
	}
}

// result maps a method's return values to an exit code and error.
func result(kind command.OutKind, out []reflect.Value) (types.ExitCode, error) {
	asErr := func(v reflect.Value) error {
		if v.IsNil() {
			return nil
		}
		return v.Interface().(error)
	}

	switch kind {
	case command.OutError:
		if err := asErr(out[0]); err != nil {
			return types.ExitCodeFailure, err
		}
		return types.ExitCodeSuccess, nil
	case command.OutCode:
		return types.ExitCode(out[0].Int()), nil
	case command.OutCodeError:
		code := types.ExitCode(out[0].Int())
		if err := asErr(out[1]); err != nil {
			if code == types.ExitCodeSuccess {
				code = types.ExitCodeFailure
			}
			return code, err
		}
		return code, nil
	default:
		return types.ExitCodeSuccess, nil
	}
}
