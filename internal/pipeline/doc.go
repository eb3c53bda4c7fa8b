// SPDX-License-Identifier: MPL-2.0

// Package pipeline composes middleware factories into a single handler and
// defines the per-run Invocation that flows through it.
//
// Factories are folded from the right: the first registered factory is the
// outermost layer and the terminal handler passed to Build is the innermost.
// Each layer either calls next exactly once or short-circuits with its own
// exit code.
package pipeline
