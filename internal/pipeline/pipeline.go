// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"

	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

var (
	// ErrPipelineAlreadyBuilt is returned by Use and Build once Build has succeeded.
	ErrPipelineAlreadyBuilt = errors.New("pipeline already built")
	// ErrNilStep is returned when a nil factory or terminal handler is supplied.
	ErrNilStep = errors.New("pipeline step must not be nil")
)

type (
	// Handler processes an invocation and yields its exit code. Handlers
	// produced by Build are stateless and may be called once per run.
	Handler func(ctx context.Context, inv *Invocation) (types.ExitCode, error)

	// Factory wraps next into a new handler. It receives the frozen registry
	// to resolve the services the layer needs.
	Factory func(next Handler, r *registry.Registry) Handler

	// Builder collects factories in registration order and compiles them once.
	Builder struct {
		registry  *registry.Registry
		factories []Factory
		built     bool
	}
)

// NewBuilder creates a builder whose factories resolve services from r.
func NewBuilder(r *registry.Registry) *Builder {
	return &Builder{registry: r}
}

// Use appends a factory. Factories run in registration order, outermost first.
func (b *Builder) Use(f Factory) error {
	if b.built {
		return ErrPipelineAlreadyBuilt
	}
	if f == nil {
		return ErrNilStep
	}
	b.factories = append(b.factories, f)
	return nil
}

// Len returns the number of registered factories.
func (b *Builder) Len() int {
	return len(b.factories)
}

// Build composes the registered factories around terminal. It succeeds once.
func (b *Builder) Build(terminal Handler) (Handler, error) {
	if b.built {
		return nil, ErrPipelineAlreadyBuilt
	}
	if terminal == nil {
		return nil, ErrNilStep
	}

	h := terminal
	for i := len(b.factories) - 1; i >= 0; i-- {
		h = b.factories[i](h, b.registry)
	}
	b.built = true
	return h, nil
}
