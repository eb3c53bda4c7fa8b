// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"

	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// AppContextInit creates the run's AppContext and threads it through the context.
func AppContextInit(next pipeline.Handler, r *registry.Registry) pipeline.Handler {
	return withServices(r, func(s *services) pipeline.Handler {
		return func(ctx context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
			var args []string
			if inv.CommandLine != nil {
				args = inv.CommandLine.Raw
			}
			ac := &console.AppContext{
				ID:      inv.ID,
				AppName: s.options.ApplicationName,
				Version: s.options.Version,
				Command: inv.Command,
				Args:    args,
				Console: s.console,
				Logger:  s.logger.With("command", inv.Command.Name),
				Context: ctx,
			}
			inv.AppContext = ac
			return next(console.WithAppContext(ctx, ac), inv)
		}
	})
}
