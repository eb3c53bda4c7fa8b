// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// PanicError is the fault captured when a command panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// FaultBoundary converts every error or panic escaping the inner steps into
// an exit code and a message on the error stream. Errors implementing
// ExitCoder choose their exit code; all others exit with 1. Nothing escapes.
func FaultBoundary(next pipeline.Handler, r *registry.Registry) pipeline.Handler {
	return withServices(r, func(s *services) pipeline.Handler {
		return func(ctx context.Context, inv *pipeline.Invocation) (code types.ExitCode, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					code, err = s.fault(inv, &PanicError{Value: rec, Stack: debug.Stack()})
				}
			}()

			code, err = next(ctx, inv)
			if err != nil {
				return s.fault(inv, err)
			}
			return code, nil
		}
	})
}

func (s *services) fault(inv *pipeline.Invocation, err error) (types.ExitCode, error) {
	inv.Err = err
	code := types.ExitCodeFailure
	if ec, ok := asExitCoder(err); ok {
		code = ec.ExitCode()
	}
	inv.ExitCode = code

	s.logger.Debug("command failed", "command", inv.Command.Name, "code", code, "err", err)
	if pe, ok := err.(*PanicError); ok && s.options.Verbose {
		s.logger.Error("command panicked", "value", pe.Value, "stack", string(pe.Stack))
	}

	// An exit request without a message only sets the code.
	if msg := issue.FormatError(err, s.options.Verbose); msg != "" && !isBareExit(err) {
		_ = s.renderer().RenderError(s.console.Err, msg, "")
		s.writeIssue(s.console.Err, issue.CommandFailedId)
	}
	return code, nil
}

// isBareExit reports whether err only carries an exit code.
func isBareExit(err error) bool {
	ec, ok := err.(interface {
		ExitCoder
		Unwrap() error
	})
	return ok && ec.Unwrap() == nil
}
