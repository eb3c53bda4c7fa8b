// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"errors"
	"fmt"
)

var (
	// ErrParameterBind is the sentinel error wrapped by ParameterBindError.
	ErrParameterBind = errors.New("parameter binding failed")

	errOverflow        = errors.New("value out of range")
	errUnsupportedType = errors.New("unsupported parameter type")
)

type (
	// ParameterBindError reports a command-line value that could not be bound
	// to a command parameter. It is a usage error.
	ParameterBindError struct {
		Command string
		// Parameter is the option or argument as the user would write it
		// ("--name", "target"); empty for errors not tied to one parameter.
		Parameter string
		Reason    string
		Err       error
	}

	// ConversionError is returned when a value cannot be converted to a parameter type.
	ConversionError struct {
		Value string
		Type  string
		Err   error
	}
)

func (e *ParameterBindError) Error() string {
	msg := e.Reason
	if e.Parameter != "" {
		msg = fmt.Sprintf("%s: %s", e.Parameter, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrParameterBind and the underlying cause.
func (e *ParameterBindError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParameterBind}
	}
	return []error{ErrParameterBind, e.Err}
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
}

// Unwrap returns the underlying conversion error.
func (e *ConversionError) Unwrap() error { return e.Err }
