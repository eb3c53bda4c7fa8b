// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"errors"

	"github.com/invowk/cmdhost/internal/binder"
	"github.com/invowk/cmdhost/internal/help"
	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// BindErrorReporting reports parameter bind failures as usage errors with the
// command's usage line. Other errors pass through.
func BindErrorReporting(next pipeline.Handler, r *registry.Registry) pipeline.Handler {
	return withServices(r, func(s *services) pipeline.Handler {
		return func(ctx context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
			code, err := next(ctx, inv)

			var bindErr *binder.ParameterBindError
			if !errors.As(err, &bindErr) {
				return code, err
			}

			s.logger.Debug("parameter binding failed", "command", bindErr.Command, "parameter", bindErr.Parameter)
			inv.Err = err
			inv.ExitCode = types.ExitCodeFailure
			_ = s.renderer().RenderError(s.console.Err, bindErr.Error(), help.Usage(s.options.ApplicationName, inv.Command))
			s.writeIssue(s.console.Err, issue.ParameterBindFailedId)
			return types.ExitCodeFailure, nil
		}
	})
}
