// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/invowk/cmdhost/internal/config"
	"github.com/invowk/cmdhost/internal/console"
	"github.com/invowk/cmdhost/internal/help"
	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// defaultWidth is the help wrap width when the console is not a terminal.
const defaultWidth = 80

type (
	// GlobalFilters are the filters registered on the host builder. They run
	// before the filters a command type declares.
	GlobalFilters []pipeline.Filter

	// ExitCoder is implemented by errors that carry the exit code to report.
	ExitCoder interface {
		ExitCode() types.ExitCode
	}

	// services are the registry entries every step reads.
	services struct {
		options *config.Options
		console *console.Console
		logger  *log.Logger
	}
)

// AmbientTypes returns the parameter types a command method may take that
// are supplied per run rather than resolved from the registry.
func AmbientTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[*console.AppContext](),
		reflect.TypeFor[*console.Console](),
		reflect.TypeFor[*log.Logger](),
	}
}

func resolveServices(r *registry.Registry) (*services, error) {
	opts, err := registry.Resolve[*config.Options](r)
	if err != nil {
		return nil, err
	}
	con, err := registry.Resolve[*console.Console](r)
	if err != nil {
		return nil, err
	}
	logger, err := registry.Resolve[*log.Logger](r)
	if err != nil {
		return nil, err
	}
	return &services{options: opts, console: con, logger: logger}, nil
}

// withServices resolves the shared services once, at build time. A step whose
// services are missing fails every run with the resolution error.
func withServices(r *registry.Registry, build func(s *services) pipeline.Handler) pipeline.Handler {
	s, err := resolveServices(r)
	if err != nil {
		err = fmt.Errorf("middleware services: %w", err)
		return func(context.Context, *pipeline.Invocation) (types.ExitCode, error) {
			return types.ExitCodeFailure, err
		}
	}
	return build(s)
}

func (s *services) renderer() help.Renderer {
	return help.Renderer{Styled: s.console.IsTerminal(), Width: s.console.Width(defaultWidth)}
}

func (s *services) appInfo() help.AppInfo {
	return help.AppInfo{Name: s.options.ApplicationName, Description: s.options.Description}
}

// writeIssue prints catalog guidance in verbose mode.
func (s *services) writeIssue(w io.Writer, id issue.Id) {
	if !s.options.Verbose {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	text := entry.MarkdownFor(s.options.ApplicationName)
	if s.console.IsTerminal() {
		if rendered, err := entry.RenderFor(s.options.ApplicationName, "dark"); err == nil {
			text = rendered
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, text)
}

func asExitCoder(err error) (ExitCoder, bool) {
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec, true
	}
	return nil, false
}
