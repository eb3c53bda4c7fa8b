// SPDX-License-Identifier: MPL-2.0

// Package console holds the I/O streams of a run and the per-run AppContext
// that commands receive. The current AppContext travels in context.Context.
package console
