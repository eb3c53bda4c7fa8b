// SPDX-License-Identifier: MPL-2.0

// Package runstate provides the lifecycle state machine of a single-use
// application host: Built, Running, then exactly one of Completed,
// Cancelled or Failed.
//
// Reads are atomic and lock-free; transitions use compare-and-swap so that a
// completion racing a cancellation settles on exactly one terminal state.
package runstate
