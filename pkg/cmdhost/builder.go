// SPDX-License-Identifier: MPL-2.0

package cmdhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/cmdhost/internal/binder"
	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/config"
	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/internal/core/runstate"
	"github.com/invowk/cmdhost/internal/dispatch"
	"github.com/invowk/cmdhost/internal/middleware"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
)

// ErrHostAlreadyBuilt is returned when Build is called twice on the same builder.
var ErrHostAlreadyBuilt = errors.New("host already built")

type (
	// HostBuilder collects the command types, options and services of a host.
	// Its methods return the builder so calls can be chained; errors surface
	// from Build.
	HostBuilder struct {
		commandTypes []any
		configure    []func(*Options)
		services     []func(*Registry) error
		filters      []Filter
		loadOptions  *LoadOptions
		optsProvider config.Provider

		stdout   io.Writer
		stderr   io.Writer
		stdin    io.Reader
		terminal *bool

		built bool
	}
)

// NewBuilder starts a host over the given command types. Each value is a
// struct or a pointer to a struct; only its type is used.
func NewBuilder(commandTypes ...any) *HostBuilder {
	return &HostBuilder{
		commandTypes: commandTypes,
		optsProvider: config.NewProvider(),
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		stdin:        os.Stdin,
	}
}

// AddCommands declares more command types.
func (b *HostBuilder) AddCommands(commandTypes ...any) *HostBuilder {
	b.commandTypes = append(b.commandTypes, commandTypes...)
	return b
}

// Configure adjusts the options after they were loaded. Functions run in
// registration order.
func (b *HostBuilder) Configure(fn func(*Options)) *HostBuilder {
	b.configure = append(b.configure, fn)
	return b
}

// ConfigureServices registers user services. Functions run after the
// built-in services are registered, so they may replace them.
func (b *HostBuilder) ConfigureServices(fn func(*Registry) error) *HostBuilder {
	b.services = append(b.services, fn)
	return b
}

// UseFilter adds global filters. They run, in order, around every command
// and before the filters its type declares.
func (b *HostBuilder) UseFilter(filters ...Filter) *HostBuilder {
	b.filters = append(b.filters, filters...)
	return b
}

// LoadOptions reads the options from a file and the environment before
// Configure functions run.
func (b *HostBuilder) LoadOptions(opts LoadOptions) *HostBuilder {
	b.loadOptions = &opts
	return b
}

// WithConsole replaces the process streams.
func (b *HostBuilder) WithConsole(out, errOut io.Writer, in io.Reader) *HostBuilder {
	b.stdout, b.stderr, b.stdin = out, errOut, in
	return b
}

// WithTerminal overrides terminal detection on the console.
func (b *HostBuilder) WithTerminal(isTerminal bool) *HostBuilder {
	b.terminal = &isTerminal
	return b
}

// Build wires the registry, validates the command types and compiles the
// dispatch pipeline. Configuration errors are returned here, never at run time.
func (b *HostBuilder) Build(ctx context.Context) (*Host, error) {
	if b.built {
		return nil, ErrHostAlreadyBuilt
	}
	b.built = true

	opts, err := b.options(ctx)
	if err != nil {
		return nil, err
	}

	var conOpts []console.Option
	if b.terminal != nil {
		conOpts = append(conOpts, console.WithTerminal(*b.terminal))
	}
	con := console.New(b.stdout, b.stderr, b.stdin, conOpts...)
	logger := newLogger(con, opts)

	reg := registry.New()
	if err := registerBuiltIns(reg, opts, con, logger, b.commandTypes, b.filters); err != nil {
		return nil, fmt.Errorf("register services: %w", err)
	}
	for _, fn := range b.services {
		if err := fn(reg); err != nil {
			return nil, fmt.Errorf("configure services: %w", err)
		}
	}

	provider, err := registry.Resolve[command.Provider](reg)
	if err != nil {
		return nil, err
	}
	if _, err := provider.Commands(); err != nil {
		return nil, err
	}

	pb := pipeline.NewBuilder(reg)
	for _, step := range middleware.Steps() {
		if err := pb.Use(step); err != nil {
			return nil, err
		}
	}
	handler, err := pb.Build(middleware.NewInvoker(reg).Invoke)
	if err != nil {
		return nil, err
	}

	// Services may have replaced the console or logger.
	if con, err = registry.Resolve[*console.Console](reg); err != nil {
		return nil, err
	}
	if logger, err = registry.Resolve[*log.Logger](reg); err != nil {
		return nil, err
	}

	machine := runstate.New(runstate.WithTransitionHook(func(from, to State) {
		logger.Debug("host state changed", "from", from, "to", to)
	}))

	logger.Debug("host built", "commands", len(b.commandTypes), "filters", len(b.filters))
	return &Host{
		options:    opts,
		registry:   reg,
		console:    con,
		logger:     logger,
		handler:    handler,
		dispatcher: dispatch.New(provider),
		machine:    machine,
	}, nil
}

func (b *HostBuilder) options(ctx context.Context) (*Options, error) {
	opts := config.DefaultOptions()
	if b.loadOptions != nil {
		loaded, err := b.optsProvider.Load(ctx, *b.loadOptions)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}
	for _, fn := range b.configure {
		fn(opts)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func newLogger(con *console.Console, opts *Options) *log.Logger {
	level := log.WarnLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(con.Err, log.Options{
		Prefix: opts.ApplicationName,
		Level:  level,
	})
}

// registerBuiltIns binds the services every host has.
func registerBuiltIns(r *Registry, opts *Options, con *console.Console, logger *log.Logger, commandTypes []any, filters []Filter) error {
	declared := append([]any(nil), commandTypes...)
	errs := []error{
		registry.Provide(r, opts),
		registry.Provide(r, con),
		registry.Provide(r, logger),
		registry.ProvideFactory(r, func(*registry.Registry) (*binder.Binder, error) {
			return binder.New(), nil
		}),
		registry.ProvideFactory(r, func(*registry.Registry) (command.Provider, error) {
			inner := command.NewTypeProvider(declared, command.ProviderOptions{
				TreatPublicMethodsAsCommands:   opts.TreatPublicMethodsAsCommands,
				ConvertOptionNamesToLowerCase:  opts.ConvertOptionNamesToLowerCase,
				ConvertCommandNamesToLowerCase: opts.ConvertCommandNamesToLowerCase,
				AmbientTypes:                   middleware.AmbientTypes(),
			})
			return command.NewBuiltInProvider(inner, command.BuiltInOptions{
				EnableShellCompletion: opts.EnableShellCompletion,
			}), nil
		}),
	}
	if len(filters) > 0 {
		errs = append(errs, registry.Provide(r, middleware.GlobalFilters(filters)))
	}
	return errors.Join(errs...)
}
