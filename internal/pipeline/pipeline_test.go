// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// recording returns a factory that logs "<name>:in" and "<name>:out" around next.
func recording(name string, log *[]string) Factory {
	return func(next Handler, _ *registry.Registry) Handler {
		return func(ctx context.Context, inv *Invocation) (types.ExitCode, error) {
			*log = append(*log, name+":in")
			code, err := next(ctx, inv)
			*log = append(*log, name+":out")
			return code, err
		}
	}
}

func TestBuildRunsFirstRegisteredOutermost(t *testing.T) {
	t.Parallel()

	var log []string
	b := NewBuilder(registry.New())
	for _, name := range []string{"A", "B", "C"} {
		if err := b.Use(recording(name, &log)); err != nil {
			t.Fatalf("Use(%s) error = %v", name, err)
		}
	}

	h, err := b.Build(func(context.Context, *Invocation) (types.ExitCode, error) {
		log = append(log, "terminal")
		return 7, nil
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	code, err := h(context.Background(), NewInvocation(nil))
	if err != nil || code != 7 {
		t.Fatalf("handler = (%d, %v), want (7, nil)", code, err)
	}
	want := []string{"A:in", "B:in", "C:in", "terminal", "C:out", "B:out", "A:out"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

func TestShortCircuitSkipsInnerLayers(t *testing.T) {
	t.Parallel()

	var log []string
	b := NewBuilder(registry.New())
	_ = b.Use(recording("A", &log))
	_ = b.Use(func(Handler, *registry.Registry) Handler {
		return func(context.Context, *Invocation) (types.ExitCode, error) {
			log = append(log, "B:stop")
			return types.ExitCodeFailure, nil
		}
	})
	_ = b.Use(recording("C", &log))

	h, err := b.Build(func(context.Context, *Invocation) (types.ExitCode, error) {
		log = append(log, "terminal")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	code, _ := h(context.Background(), NewInvocation(nil))
	if code != types.ExitCodeFailure {
		t.Errorf("code = %d, want 1", code)
	}
	if want := []string{"A:in", "B:stop", "A:out"}; !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

func TestBuildWithoutFactoriesIsTerminal(t *testing.T) {
	t.Parallel()

	h, err := NewBuilder(registry.New()).Build(func(context.Context, *Invocation) (types.ExitCode, error) {
		return 3, nil
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if code, _ := h(context.Background(), NewInvocation(nil)); code != 3 {
		t.Errorf("code = %d, want 3", code)
	}
}

func TestBuilderAfterBuild(t *testing.T) {
	t.Parallel()

	b := NewBuilder(registry.New())
	terminal := func(context.Context, *Invocation) (types.ExitCode, error) { return 0, nil }
	if _, err := b.Build(terminal); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := b.Build(terminal); !errors.Is(err, ErrPipelineAlreadyBuilt) {
		t.Errorf("second Build() error = %v, want ErrPipelineAlreadyBuilt", err)
	}
	if err := b.Use(recording("late", &[]string{})); !errors.Is(err, ErrPipelineAlreadyBuilt) {
		t.Errorf("Use() after Build error = %v, want ErrPipelineAlreadyBuilt", err)
	}
}

func TestBuilderRejectsNil(t *testing.T) {
	t.Parallel()

	b := NewBuilder(registry.New())
	if err := b.Use(nil); !errors.Is(err, ErrNilStep) {
		t.Errorf("Use(nil) error = %v, want ErrNilStep", err)
	}
	if _, err := b.Build(nil); !errors.Is(err, ErrNilStep) {
		t.Errorf("Build(nil) error = %v, want ErrNilStep", err)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestFactoriesResolveFromRegistry(t *testing.T) {
	t.Parallel()

	type prefix struct{ value string }
	r := registry.New()
	if err := registry.Provide(r, &prefix{value: "svc"}); err != nil {
		t.Fatalf("Provide() error = %v", err)
	}

	var seen string
	b := NewBuilder(r)
	_ = b.Use(func(next Handler, r *registry.Registry) Handler {
		p := registry.MustResolve[*prefix](r)
		return func(ctx context.Context, inv *Invocation) (types.ExitCode, error) {
			seen = p.value
			return next(ctx, inv)
		}
	})
	h, _ := b.Build(func(context.Context, *Invocation) (types.ExitCode, error) { return 0, nil })
	_, _ = h(context.Background(), NewInvocation(nil))
	if seen != "svc" {
		t.Errorf("resolved = %q, want svc", seen)
	}
}

func TestChainRunsFiltersInOrder(t *testing.T) {
	t.Parallel()

	var log []string
	filter := func(name string) Filter {
		return FilterFunc(func(ctx context.Context, inv *Invocation, next Next) (types.ExitCode, error) {
			log = append(log, name)
			return next(ctx)
		})
	}
	stop := FilterFunc(func(context.Context, *Invocation, Next) (types.ExitCode, error) {
		log = append(log, "stop")
		return 5, nil
	})
	final := func(context.Context) (types.ExitCode, error) {
		log = append(log, "command")
		return 0, nil
	}

	code, _ := Chain(context.Background(), NewInvocation(nil), []Filter{filter("global"), filter("type")}, final)
	if code != 0 || !reflect.DeepEqual(log, []string{"global", "type", "command"}) {
		t.Errorf("Chain() = %d, log %v", code, log)
	}

	log = nil
	code, _ = Chain(context.Background(), NewInvocation(nil), []Filter{filter("global"), stop, filter("type")}, final)
	if code != 5 || !reflect.DeepEqual(log, []string{"global", "stop"}) {
		t.Errorf("Chain() with stop = %d, log %v", code, log)
	}
}

func TestNewInvocationIDsAreUnique(t *testing.T) {
	t.Parallel()

	a, b := NewInvocation([]string{"x"}), NewInvocation([]string{"x"})
	if a.ID == b.ID {
		t.Error("invocations share an ID")
	}
	if !reflect.DeepEqual(a.Args, []string{"x"}) {
		t.Errorf("Args = %v", a.Args)
	}
}
