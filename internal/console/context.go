// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/invowk/cmdhost/internal/command"
)

type (
	appContextKey struct{}

	// AppContext describes the run a command executes in. The host creates one
	// per run before the command is invoked; commands receive it as a
	// parameter or through FromContext.
	AppContext struct {
		// ID identifies the invocation in logs.
		ID uuid.UUID
		// AppName and Version come from the host options.
		AppName string
		Version string
		Command *command.Descriptor
		// Args are the arguments that followed the command name.
		Args    []string
		Console *Console
		Logger  *log.Logger
		// Context is cancelled when the run is cancelled.
		Context context.Context
	}
)

// WithAppContext returns a copy of ctx carrying ac.
func WithAppContext(ctx context.Context, ac *AppContext) context.Context {
	return context.WithValue(ctx, appContextKey{}, ac)
}

// FromContext returns the AppContext carried by ctx.
func FromContext(ctx context.Context) (*AppContext, bool) {
	ac, ok := ctx.Value(appContextKey{}).(*AppContext)
	return ac, ok && ac != nil
}

// Cancelled reports whether the run has been cancelled.
func (ac *AppContext) Cancelled() bool {
	return ac.Context != nil && ac.Context.Err() != nil
}
