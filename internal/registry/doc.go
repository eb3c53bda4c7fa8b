// SPDX-License-Identifier: MPL-2.0

// Package registry is the singleton service container the host uses to wire
// its long-lived services.
//
// Services are keyed by reflect.Type. A key is bound either to a ready
// instance or to a factory that receives the registry itself so it can
// resolve its own dependencies. Factories run at most once; the produced
// value replaces the factory. Once anything has been resolved the registry
// is frozen and further registrations fail.
//
// The registry has no scopes, no disposal and no open generics. It is not
// synchronized: it is populated while the host is built and read from the
// single goroutine that drives a run.
package registry
