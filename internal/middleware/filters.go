// SPDX-License-Identifier: MPL-2.0

package middleware

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/invowk/cmdhost/internal/pipeline"
	"github.com/invowk/cmdhost/internal/registry"
	"github.com/invowk/cmdhost/pkg/types"
)

// CommandFilters runs the global filters, then the filters declared by the
// command's type, around the remaining steps.
func CommandFilters(next pipeline.Handler, r *registry.Registry) pipeline.Handler {
	global, err := registry.Resolve[GlobalFilters](r)
	if err != nil && !errors.Is(err, registry.ErrUnresolvedService) {
		err = fmt.Errorf("global filters: %w", err)
		return func(context.Context, *pipeline.Invocation) (types.ExitCode, error) {
			return types.ExitCodeFailure, err
		}
	}

	return func(ctx context.Context, inv *pipeline.Invocation) (types.ExitCode, error) {
		filters := append([]pipeline.Filter(nil), global...)
		filters = append(filters, typeFilters(inv.Command.Type)...)
		if len(filters) == 0 {
			return next(ctx, inv)
		}
		return pipeline.Chain(ctx, inv, filters, func(ctx context.Context) (types.ExitCode, error) {
			return next(ctx, inv)
		})
	}
}

// typeFilters asks a zero value of t for its filters.
func typeFilters(t reflect.Type) []pipeline.Filter {
	if t == nil {
		return nil
	}
	if fp, ok := reflect.New(t).Interface().(pipeline.FilterProvider); ok {
		return fp.CommandFilters()
	}
	return nil
}
