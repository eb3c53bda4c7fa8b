// SPDX-License-Identifier: MPL-2.0

package cmdhost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/internal/core/runstate"
	"github.com/invowk/cmdhost/internal/dispatch"
	"github.com/invowk/cmdhost/internal/help"
	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/pkg/types"
)

type (
	// Host runs one command line through the compiled pipeline. A host is
	// single-run: it moves from Built to Running and then to Completed,
	// Cancelled or Failed, and never runs again.
	Host struct {
		options    *Options
		registry   *Registry
		console    *console.Console
		logger     *log.Logger
		handler    pipeline.Handler
		dispatcher *dispatch.Dispatcher
		machine    *runstate.Machine
	}

	// Result is the outcome of a run.
	Result struct {
		ExitCode types.ExitCode
		State    State
		// Err is the failure that moved the host to StateFailed.
		Err error
	}

	// outcome is what the dispatch goroutine reports back.
	outcome struct {
		code  types.ExitCode
		fatal error
	}
)

// Options returns the options the host was built with.
func (h *Host) Options() *Options { return h.options }

// Registry returns the host's service registry.
func (h *Host) Registry() *Registry { return h.registry }

// State returns the current lifecycle state.
func (h *Host) State() State { return h.machine.State() }

// Done returns a channel closed once the host reaches a terminal state.
func (h *Host) Done() <-chan struct{} { return h.machine.Done() }

// Run runs args until the command returns or SIGINT/SIGTERM arrives and
// returns the process exit code.
func (h *Host) Run(args []string) types.ExitCode {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := h.RunContext(ctx, args)
	if err != nil {
		h.logger.Error("run failed", "err", err)
		return types.ExitCodeFailure
	}
	return res.ExitCode
}

// RunContext dispatches args and waits for the run to finish or for ctx to
// be cancelled, whichever comes first. On cancellation the host stops
// waiting and reports StateCancelled with ExitCodeCancelled; the command
// observes the cancellation through its context. The returned error is
// non-nil only when the host cannot start a run.
func (h *Host) RunContext(ctx context.Context, args []string) (Result, error) {
	if err := h.machine.Begin(ctx); err != nil {
		if errors.Is(err, runstate.ErrTransition) {
			return Result{ExitCode: types.ExitCodeFailure, State: h.machine.State()}, err
		}
		h.logger.Debug("cancelled before start", "err", err)
		return Result{ExitCode: types.ExitCodeCancelled, State: StateCancelled}, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		done <- h.dispatch(runCtx, args)
	}()

	select {
	case out := <-done:
		if out.fatal != nil {
			h.machine.Fail(out.fatal)
			return Result{ExitCode: out.code, State: StateFailed, Err: h.machine.LastError()}, nil
		}
		if !h.machine.Complete() {
			return Result{ExitCode: types.ExitCodeCancelled, State: h.machine.State()}, nil
		}
		return Result{ExitCode: out.code, State: StateCompleted}, nil
	case <-ctx.Done():
		h.machine.Cancel()
		h.logger.Debug("run cancelled", "err", ctx.Err())
		return Result{ExitCode: types.ExitCodeCancelled, State: StateCancelled}, nil
	}
}

// dispatch runs the pipeline and handles what escapes it: unmatched
// commands become usage errors, anything else is fatal and exits with 1.
func (h *Host) dispatch(ctx context.Context, args []string) (out outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("unhandled panic", "value", rec, "stack", string(debug.Stack()))
			out = outcome{code: types.ExitCodeFailure, fatal: fmt.Errorf("panic: %v", rec)}
		}
	}()

	code, err := h.dispatcher.Dispatch(ctx, args, h.handler)
	if err == nil {
		return outcome{code: code}
	}

	var notFound *command.CommandNotFoundError
	if errors.As(err, &notFound) {
		h.reportNotFound(notFound)
		return outcome{code: types.ExitCodeFailure}
	}

	h.logger.Error("dispatch failed", "err", err)
	return outcome{code: types.ExitCodeFailure, fatal: err}
}

func (h *Host) reportNotFound(err *command.CommandNotFoundError) {
	h.logger.Debug("command not found", "name", err.Name, "similar", err.Similar)
	r := help.Renderer{Styled: h.console.IsTerminal(), Width: h.console.Width(80)}
	msg := fmt.Sprintf("'%s' is not a command", err.Name)
	if err.Name == "" {
		msg = err.Error()
	}
	_ = r.RenderError(h.console.Err, msg, h.options.ApplicationName+" [command] [options]")
	if len(err.Similar) > 0 {
		fmt.Fprintln(h.console.Err, "\nDid you mean this?")
		for _, name := range err.Similar {
			fmt.Fprintf(h.console.Err, "\t%s\n", name)
		}
	}
	if h.options.Verbose {
		if entry := issue.Get(issue.CommandNotFoundId); entry != nil {
			fmt.Fprintln(h.console.Err)
			fmt.Fprintln(h.console.Err, entry.MarkdownFor(h.options.ApplicationName))
		}
	}
}
