// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of user-facing
// guidance for the failures a command-line run can hit.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions. Catalog entries are Markdown documents rendered with glamour
// when the host runs in verbose mode on a terminal.
package issue
