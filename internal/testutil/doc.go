// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that run commands: captured
// console streams, a no-op logger and files written into the test's
// temporary directory.
package testutil
