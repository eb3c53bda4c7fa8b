// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

type (
	// Factory produces a service instance. It may resolve other services from r.
	Factory func(r *Registry) (any, error)

	// entry is either a ready instance or a pending factory.
	entry struct {
		instance any
		factory  Factory
		resolved bool
	}

	// Registry maps service keys to singleton instances.
	// The zero value is not usable; create one with New.
	Registry struct {
		entries map[reflect.Type]*entry
		// resolving is the stack of keys whose factories are currently running.
		resolving []reflect.Type
		frozen    bool
	}
)

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[reflect.Type]*entry, 32)}
}

// Register binds key to a fixed instance. A previous binding for the same key
// is replaced.
func (r *Registry) Register(key reflect.Type, instance any) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if isNil(instance) {
		return &NilServiceError{Key: key}
	}
	r.entries[key] = &entry{instance: instance, resolved: true}
	return nil
}

// RegisterFactory binds key to a factory evaluated on first resolution.
// A previous binding for the same key is replaced.
func (r *Registry) RegisterFactory(key reflect.Type, factory Factory) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if factory == nil {
		return &NilServiceError{Key: key}
	}
	r.entries[key] = &entry{factory: factory}
	return nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key reflect.Type) bool {
	_, ok := r.entries[key]
	return ok
}

// Resolve returns the instance bound to key, running its factory the first
// time. The first call freezes the registry.
func (r *Registry) Resolve(key reflect.Type) (any, error) {
	r.frozen = true

	e, ok := r.entries[key]
	if !ok {
		return nil, &UnresolvedServiceError{Key: key}
	}
	if e.resolved {
		return e.instance, nil
	}

	if slices.Contains(r.resolving, key) {
		chain := append(slices.Clone(r.resolving), key)
		return nil, &CircularDependencyError{Chain: chain}
	}

	instance, err := r.build(key, e.factory)

	if err != nil {
		// Cycle errors surface unchanged so the full chain reaches the caller.
		var cycle *CircularDependencyError
		if errors.As(err, &cycle) {
			return nil, cycle
		}
		return nil, &FactoryError{Key: key, Err: err}
	}
	if isNil(instance) {
		return nil, &FactoryError{Key: key, Err: &NilServiceError{Key: key}}
	}

	e.instance = instance
	e.factory = nil
	e.resolved = true
	return instance, nil
}

// build runs factory with key on the resolution stack. The key is popped
// even when the factory panics.
func (r *Registry) build(key reflect.Type, factory Factory) (any, error) {
	r.resolving = append(r.resolving, key)
	defer func() {
		r.resolving = r.resolving[:len(r.resolving)-1]
	}()
	return factory(r)
}

// Frozen reports whether the registry has served a resolution.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Keys returns the registered keys in no particular order.
func (r *Registry) Keys() []reflect.Type {
	keys := make([]reflect.Type, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

func (r *Registry) checkWritable() error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	return nil
}

// KeyOf returns the registry key for the static type T.
// Interface types are keyed by the interface itself, not by an implementation.
func KeyOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Provide registers instance under the key of T.
func Provide[T any](r *Registry, instance T) error {
	return r.Register(KeyOf[T](), instance)
}

// ProvideFactory registers a typed factory under the key of T.
func ProvideFactory[T any](r *Registry, factory func(r *Registry) (T, error)) error {
	if factory == nil {
		return &NilServiceError{Key: KeyOf[T]()}
	}
	return r.RegisterFactory(KeyOf[T](), func(r *Registry) (any, error) {
		return factory(r)
	})
}

// Resolve returns the service registered under the key of T.
func Resolve[T any](r *Registry) (T, error) {
	var zero T
	key := KeyOf[T]()
	v, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: key, Got: reflect.TypeOf(v)}
	}
	return typed, nil
}

// MustResolve is Resolve for services the host always registers; it panics
// on failure because a missing built-in service is a programming error.
func MustResolve[T any](r *Registry) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
