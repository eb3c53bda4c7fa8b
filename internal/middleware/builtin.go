// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/completion"
	"github.com/invowk/cmdhost/internal/help"
	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// defaultVersion is printed by --version when no version is configured.
const defaultVersion = "dev"

// BuiltInCommands answers help, version and completion requests without
// running the command. It handles its own errors since it sits outside
// the fault boundary.
func BuiltInCommands(next pipeline.Handler, r *registry.Registry) pipeline.Handler {
	return withServices(r, func(s *services) pipeline.Handler {
		return func(ctx context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
			d := inv.Command
			switch {
			case d.Kind == command.KindCompletionCandidates:
				s.logger.Debug("answering completion request", "args", inv.CommandLine.Raw)
				if err := completion.Complete(ctx, s.console.Out, s.options.ApplicationName, inv.Commands, inv.CommandLine.Raw); err != nil {
					return s.builtInFailed(err)
				}
				return types.ExitCodeSuccess, nil

			case builtInSet(inv, command.HelpOptionName):
				s.logger.Debug("showing help", "command", d.Name)
				return s.showHelp(inv)

			case builtInSet(inv, command.VersionOptionName):
				version := s.options.Version
				if version == "" {
					version = defaultVersion
				}
				fmt.Fprintf(s.console.Out, "%s %s\n", s.options.ApplicationName, version)
				return types.ExitCodeSuccess, nil

			case builtInSet(inv, command.CompletionOptionName):
				shell := lastBuiltInValue(inv, command.CompletionOptionName)
				s.logger.Debug("writing completion script", "shell", shell)
				if err := completion.WriteScript(s.console.Out, s.options.ApplicationName, inv.Commands, shell); err != nil {
					if errors.Is(err, completion.ErrUnsupportedShell) {
						_ = s.renderer().RenderError(s.console.Err, err.Error(), "")
						s.writeIssue(s.console.Err, issue.UnsupportedShellId)
						return types.ExitCodeFailure, nil
					}
					return s.builtInFailed(err)
				}
				return types.ExitCodeSuccess, nil

			case d.Kind == command.KindHelp && len(inv.CommandLine.UnknownOptions) == 0:
				return s.showHelp(inv)
			}

			return next(ctx, inv)
		}
	})
}

func (s *services) showHelp(inv *pipeline.Invocation) (types.ExitCode, error) {
	doc := help.ForCommand(s.appInfo(), inv.Command, inv.Commands)
	if err := s.renderer().Render(s.console.Out, doc); err != nil {
		return s.builtInFailed(err)
	}
	return types.ExitCodeSuccess, nil
}

func (s *services) builtInFailed(err error) (types.ExitCode, error) {
	s.logger.Debug("built-in command failed", "err", err)
	_ = s.renderer().RenderError(s.console.Err, err.Error(), "")
	return types.ExitCodeFailure, nil
}

// builtInSet reports whether a host-provided option occurred on the command line.
func builtInSet(inv *pipeline.Invocation, name string) bool {
	for _, occ := range inv.CommandLine.Options {
		if occ.Descriptor.BuiltIn && occ.Descriptor.Name == name {
			if occ.Descriptor.IsFlag() {
				return occ.Value != "false"
			}
			return true
		}
	}
	return false
}

func lastBuiltInValue(inv *pipeline.Invocation, name string) string {
	var value string
	for _, occ := range inv.CommandLine.Options {
		if occ.Descriptor.BuiltIn && occ.Descriptor.Name == name {
			value = occ.Value
		}
	}
	return value
}
