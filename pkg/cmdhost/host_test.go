// SPDX-License-Identifier: MPL-2.0

package cmdhost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/config"
	"github.com/invowk/cmdhost/internal/core/runstate"
	"github.com/invowk/cmdhost/internal/middleware"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/internal/testutil"
	"github.com/invowk/cmdhost/pkg/types"
)

type (
	GreetParams struct {
		Name string `option:"name,n" desc:"who to greet"`
	}

	greetCommands struct{}

	toolCommands struct {
		Counter *counter `inject:""`
	}

	gate struct {
		started chan struct{}
		release chan struct{}
	}

	waitCommands struct {
		Gate *gate `inject:""`
	}

	counter struct {
		calls atomic.Int32
	}

	// flakyProvider serves the commands once, at build time, then fails.
	flakyProvider struct {
		inner command.Provider
		calls atomic.Int32
	}

	testHost struct {
		*Host
		out    *bytes.Buffer
		errOut *bytes.Buffer
	}
)

func (greetCommands) Greet(c *Context, p GreetParams) {
	fmt.Fprintf(c.Console.Out, "Hello, %s\n", p.Name)
}

func (tc *toolCommands) Fail() error  { return errors.New("boom") }
func (tc *toolCommands) Panic()       { panic("kaboom") }
func (tc *toolCommands) Stop() error  { return Exitf(3, "stopped") }
func (tc *toolCommands) Quiet() error { return Exit(4) }

func (tc *toolCommands) Count(c *Context) {
	fmt.Fprintln(c.Console.Out, tc.Counter.calls.Load())
}

func (w *waitCommands) Wait() {
	close(w.Gate.started)
	<-w.Gate.release
}

func (w *waitCommands) Other() {}

func (p *flakyProvider) Commands() (*command.Collection, error) {
	if p.calls.Add(1) > 1 {
		return nil, errors.New("provider went away")
	}
	return p.inner.Commands()
}

func newTestHost(t *testing.T, b *HostBuilder) *testHost {
	t.Helper()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	b.WithConsole(out, errOut, strings.NewReader("")).WithTerminal(false).Configure(func(o *Options) {
		o.ApplicationName = "greet"
		o.Version = "1.2.3"
	})
	h, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return &testHost{Host: h, out: out, errOut: errOut}
}

func withCounter(b *HostBuilder) *HostBuilder {
	return b.ConfigureServices(func(r *Registry) error {
		return ProvideFactory(r, func(*Registry) (*counter, error) {
			c := &counter{}
			c.calls.Add(1)
			return c, nil
		})
	})
}

func TestGreetEndToEnd(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	res, err := h.RunContext(context.Background(), []string{"Greet", "--name", "Ada"})
	if err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if res.ExitCode != types.ExitCodeSuccess || res.State != StateCompleted {
		t.Errorf("result = %+v, want exit 0 and completed; stderr: %s", res, h.errOut.String())
	}
	if got := h.out.String(); got != "Hello, Ada\n" {
		t.Errorf("stdout = %q, want %q", got, "Hello, Ada\n")
	}
}

func TestGreetUnknownOption(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	res, err := h.RunContext(context.Background(), []string{"Greet", "--nope", "x"})
	if err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if res.ExitCode != types.ExitCodeUnknownOption {
		t.Errorf("exit code = %d, want %d", res.ExitCode, types.ExitCodeUnknownOption)
	}
	if h.out.Len() != 0 {
		t.Errorf("command body ran: stdout = %q", h.out.String())
	}
	if !strings.Contains(h.errOut.String(), "unknown option '--nope'") {
		t.Errorf("stderr = %q", h.errOut.String())
	}
}

func TestPrimaryCommandWithoutName(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	if res, _ := h.RunContext(context.Background(), []string{"-n", "Grace"}); res.ExitCode != 0 {
		t.Fatalf("exit code = %d, stderr: %s", res.ExitCode, h.errOut.String())
	}
	if got := h.out.String(); got != "Hello, Grace\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestCommandFaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		code   types.ExitCode
		stderr string
	}{
		{"error", []string{"Fail"}, 1, "error: boom"},
		{"panic", []string{"Panic"}, 1, "error: panic: kaboom"},
		{"exit error with message", []string{"Stop"}, 3, "error: stopped"},
		{"bare exit error", []string{"Quiet"}, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHost(t, withCounter(NewBuilder(&toolCommands{})))
			res, err := h.RunContext(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("RunContext() error = %v", err)
			}
			if res.ExitCode != tt.code || res.State != StateCompleted {
				t.Errorf("result = %+v, want exit %d and completed", res, tt.code)
			}
			if tt.stderr == "" && h.errOut.Len() != 0 {
				t.Errorf("stderr = %q, want empty", h.errOut.String())
			}
			if !strings.Contains(h.errOut.String(), tt.stderr) {
				t.Errorf("stderr = %q, want %q", h.errOut.String(), tt.stderr)
			}
		})
	}
}

func TestCommandNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, withCounter(NewBuilder(&toolCommands{})))
	res, err := h.RunContext(context.Background(), []string{"Fial"})
	if err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if res.ExitCode != types.ExitCodeFailure || res.State != StateCompleted {
		t.Errorf("result = %+v, want exit 1 and completed", res)
	}
	stderr := h.errOut.String()
	if !strings.Contains(stderr, "error: 'Fial' is not a command") || !strings.Contains(stderr, "Did you mean this?\n\tFail") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSingletonServices(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, withCounter(NewBuilder(&toolCommands{})))
	if res, _ := h.RunContext(context.Background(), []string{"Count"}); res.ExitCode != 0 {
		t.Fatalf("exit code = %d, stderr: %s", res.ExitCode, h.errOut.String())
	}
	if got := h.out.String(); got != "1\n" {
		t.Errorf("stdout = %q, want the factory to have run once", got)
	}

	first, err := Resolve[*counter](h.Registry())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, _ := Resolve[*counter](h.Registry())
	if first != second || first.calls.Load() != 1 {
		t.Error("Resolve() should return the same memoized instance")
	}
}

func TestUnresolvedServiceIsConsistent(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	for range 2 {
		if _, err := Resolve[*counter](h.Registry()); !errors.Is(err, registry.ErrUnresolvedService) {
			t.Errorf("Resolve() error = %v, want ErrUnresolvedService", err)
		}
	}
}

func TestCancellation(t *testing.T) {
	t.Parallel()

	g := &gate{started: make(chan struct{}), release: make(chan struct{})}
	t.Cleanup(func() { close(g.release) })

	h := newTestHost(t, NewBuilder(&waitCommands{}).ConfigureServices(func(r *Registry) error {
		return Provide(r, g)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan Result, 1)
	go func() {
		res, _ := h.RunContext(ctx, []string{"Wait"})
		results <- res
	}()

	<-g.started
	if got := h.State(); got != StateRunning {
		t.Errorf("State() while running = %v, want %v", got, StateRunning)
	}
	cancel()

	select {
	case res := <-results:
		if res.State != StateCancelled || res.ExitCode != types.ExitCodeCancelled {
			t.Errorf("result = %+v, want cancelled with exit %d", res, types.ExitCodeCancelled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("host kept waiting after cancellation")
	}
	if got := h.State(); got != StateCancelled {
		t.Errorf("State() = %v, want %v", got, StateCancelled)
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.RunContext(ctx, []string{"Greet", "--name", "Ada"})
	if err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if res.State != StateCancelled || res.ExitCode != types.ExitCodeCancelled {
		t.Errorf("result = %+v, want cancelled", res)
	}
	if h.out.Len() != 0 {
		t.Errorf("command ran: %q", h.out.String())
	}
}

func TestHostRunsOnce(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	if _, err := h.RunContext(context.Background(), []string{"--name", "Ada"}); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	res, err := h.RunContext(context.Background(), []string{"--name", "Ada"})
	if !errors.Is(err, runstate.ErrTransition) {
		t.Errorf("second run error = %v, want ErrTransition", err)
	}
	if res.State != StateCompleted {
		t.Errorf("second run state = %v, want the first run's %v", res.State, StateCompleted)
	}
}

func TestDispatchFailureMovesToFailed(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}).ConfigureServices(func(r *Registry) error {
		return ProvideFactory(r, func(*Registry) (command.Provider, error) {
			inner := command.NewBuiltInProvider(command.NewTypeProvider([]any{greetCommands{}}, command.ProviderOptions{
				TreatPublicMethodsAsCommands: true,
				AmbientTypes:                 middleware.AmbientTypes(),
			}), command.BuiltInOptions{})
			return &flakyProvider{inner: inner}, nil
		})
	}))

	res, err := h.RunContext(context.Background(), []string{"--name", "Ada"})
	if err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if res.State != StateFailed || res.ExitCode != types.ExitCodeFailure {
		t.Errorf("result = %+v, want failed with exit 1", res)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "provider went away") {
		t.Errorf("Result.Err = %v, want the provider failure", res.Err)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after failure")
	}
}

func TestVerboseLogsStateChanges(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}).Configure(func(o *Options) {
		o.Verbose = true
	}))
	if _, err := h.RunContext(context.Background(), []string{"--name", "Ada"}); err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}

	logs := h.errOut.String()
	if !strings.Contains(logs, "host state changed") || !strings.Contains(logs, "completed") {
		t.Errorf("stderr = %q, want the state changes logged", logs)
	}
}

func TestBuiltInsThroughHost(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, NewBuilder(greetCommands{}))
	if res, _ := h.RunContext(context.Background(), []string{"--version"}); res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if got := h.out.String(); got != "greet 1.2.3\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestGlobalFilters(t *testing.T) {
	t.Parallel()

	var order []string
	record := func(name string) Filter {
		return FilterFunc(func(ctx context.Context, inv *Invocation, next Next) (types.ExitCode, error) {
			order = append(order, name+":in")
			code, err := next(ctx)
			order = append(order, name+":out")
			return code, err
		})
	}

	h := newTestHost(t, NewBuilder(greetCommands{}).UseFilter(record("a"), record("b")))
	if res, _ := h.RunContext(context.Background(), []string{"--name", "Ada"}); res.ExitCode != 0 {
		t.Fatalf("exit code = %d, stderr: %s", res.ExitCode, h.errOut.String())
	}
	want := "[a:in b:in b:out a:out]"
	if got := fmt.Sprint(order); got != want {
		t.Errorf("filter order = %s, want %s", got, want)
	}
}

func TestLoadOptionsFromFile(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, "options.toml", "version = \"9.9.9\"\nverbose = false\n")

	out := &bytes.Buffer{}
	h, err := NewBuilder(greetCommands{}).
		WithConsole(out, &bytes.Buffer{}, strings.NewReader("")).
		WithTerminal(false).
		LoadOptions(LoadOptions{ConfigFilePath: types.FilesystemPath(path)}).
		Configure(func(o *Options) { o.ApplicationName = "filed" }).
		Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res, _ := h.RunContext(context.Background(), []string{"--version"}); res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if got := out.String(); got != "filed 9.9.9\n" {
		t.Errorf("stdout = %q, want %q", got, "filed 9.9.9\n")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		builder func() *HostBuilder
		want    error
	}{
		{
			name:    "invalid command type",
			builder: func() *HostBuilder { return NewBuilder(42) },
			want:    command.ErrInvalidCommandType,
		},
		{
			name: "service configuration error",
			builder: func() *HostBuilder {
				return NewBuilder(greetCommands{}).ConfigureServices(func(*Registry) error { return boom })
			},
			want: boom,
		},
		{
			name: "nil service",
			builder: func() *HostBuilder {
				return NewBuilder(greetCommands{}).ConfigureServices(func(r *Registry) error {
					return Provide[*counter](r, nil)
				})
			},
			want: registry.ErrNilService,
		},
		{
			name: "invalid options",
			builder: func() *HostBuilder {
				return NewBuilder(greetCommands{}).Configure(func(o *Options) { o.ApplicationName = " " })
			},
			want: config.ErrInvalidOptions,
		},
		{
			name: "missing options file",
			builder: func() *HostBuilder {
				return NewBuilder(greetCommands{}).LoadOptions(LoadOptions{ConfigFilePath: "/does/not/exist.cue"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := tt.builder().WithConsole(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""))
			_, err := b.Build(context.Background())
			if err == nil {
				t.Fatal("Build() error = nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildTwice(t *testing.T) {
	t.Parallel()

	b := NewBuilder(greetCommands{}).WithConsole(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""))
	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	if _, err := b.Build(context.Background()); !errors.Is(err, ErrHostAlreadyBuilt) {
		t.Errorf("second Build() error = %v, want ErrHostAlreadyBuilt", err)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext() on a bare context should report false")
	}
}
