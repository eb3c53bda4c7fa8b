// SPDX-License-Identifier: MPL-2.0

// Package middleware implements the fixed dispatch steps of a host, from
// outermost to innermost:
//
//  1. built-in commands (help, version, completion)
//  2. the fault boundary mapping errors and panics to exit codes
//  3. parameter-bind-error reporting
//  4. unknown-option rejection
//  5. command filters
//  6. console and app-context initialization
//  7. command invocation (the terminal handler)
//
// Steps resolve their services from the registry when the pipeline is built.
package middleware
