// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrUnresolvedService is the sentinel error wrapped by UnresolvedServiceError.
	ErrUnresolvedService = errors.New("service not registered")
	// ErrCircularDependency is the sentinel error wrapped by CircularDependencyError.
	ErrCircularDependency = errors.New("circular service dependency")
	// ErrRegistryFrozen is returned when a registration happens after the first resolution.
	ErrRegistryFrozen = errors.New("registry is frozen")
	// ErrNilService is the sentinel error wrapped by NilServiceError.
	ErrNilService = errors.New("nil service")
)

type (
	// UnresolvedServiceError is returned when resolving a key that was never registered.
	UnresolvedServiceError struct {
		Key reflect.Type
	}

	// CircularDependencyError is returned when a factory resolves, directly or
	// transitively, the key it is producing. Chain lists the keys being
	// resolved, outermost first, ending with the repeated key.
	CircularDependencyError struct {
		Chain []reflect.Type
	}

	// NilServiceError is returned when registering a nil instance or factory.
	NilServiceError struct {
		Key reflect.Type
	}

	// FactoryError wraps an error returned by a service factory.
	FactoryError struct {
		Key reflect.Type
		Err error
	}

	// TypeMismatchError is returned by the generic helpers when the stored
	// value does not implement the requested type.
	TypeMismatchError struct {
		Expected reflect.Type
		Got      reflect.Type
	}
)

func (e *UnresolvedServiceError) Error() string {
	return fmt.Sprintf("no service registered for %s", typeName(e.Key))
}

// Unwrap returns ErrUnresolvedService for errors.Is() compatibility.
func (e *UnresolvedServiceError) Unwrap() error { return ErrUnresolvedService }

func (e *CircularDependencyError) Error() string {
	names := make([]string, len(e.Chain))
	for i, k := range e.Chain {
		names[i] = typeName(k)
	}
	return "circular dependency detected: " + strings.Join(names, " -> ")
}

// Unwrap returns ErrCircularDependency for errors.Is() compatibility.
func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

func (e *NilServiceError) Error() string {
	return fmt.Sprintf("nil service provided for %s", typeName(e.Key))
}

// Unwrap returns ErrNilService for errors.Is() compatibility.
func (e *NilServiceError) Unwrap() error { return ErrNilService }

func (e *FactoryError) Error() string {
	return fmt.Sprintf("factory for %s failed: %v", typeName(e.Key), e.Err)
}

// Unwrap returns the factory's error.
func (e *FactoryError) Unwrap() error { return e.Err }

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", typeName(e.Expected), typeName(e.Got))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
