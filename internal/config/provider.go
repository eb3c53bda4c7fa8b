// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/invowk/cmdhost/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit options loading inputs.
	LoadOptions struct {
		// ConfigFilePath names an options file (.cue or .toml). Empty means none.
		ConfigFilePath types.FilesystemPath
		// EnvPrefix selects environment variables <EnvPrefix>_<KEY>.
		// Empty disables environment overrides.
		EnvPrefix string
		// Defaults seeds the layering; nil means DefaultOptions().
		Defaults *Options
	}

	// InvalidLoadOptionsError is returned when LoadOptions fail validation.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads options from explicit inputs.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Options, error)
	}

	fileProvider struct{}
)

// NewProvider creates an options provider backed by files and environment.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load builds options from the requested sources.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Options, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return loadWithOptions(ctx, opts)
}

// Validate checks the load inputs.
func (o LoadOptions) Validate() error {
	var errs []error
	if err := o.ConfigFilePath.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
