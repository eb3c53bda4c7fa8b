// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"fmt"

	"github.com/invowk/cmdhost/internal/help"
	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// UnknownOptionRejection stops the run when the command line carries an
// option the command does not declare, unless the command opts out.
func UnknownOptionRejection(next pipeline.Handler, r *registry.Registry) pipeline.Handler {
	return withServices(r, func(s *services) pipeline.Handler {
		return func(ctx context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
			unknown := inv.CommandLine.UnknownOptions
			if len(unknown) == 0 || inv.Command.IgnoreUnknownOptions {
				return next(ctx, inv)
			}

			first := unknown[0]
			s.logger.Debug("rejecting unknown option", "command", inv.Command.Name, "option", first.Token, "position", first.Position)
			inv.ExitCode = types.ExitCodeUnknownOption
			_ = s.renderer().RenderError(s.console.Err, fmt.Sprintf("unknown option '%s'", first.Token), help.Usage(s.options.ApplicationName, inv.Command))
			s.writeIssue(s.console.Err, issue.UnknownOptionId)
			return types.ExitCodeUnknownOption, nil
		}
	})
}
