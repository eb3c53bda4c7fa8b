// SPDX-License-Identifier: MPL-2.0

// Package help builds help documents for an application and its commands
// and renders them as plain text or, on terminals, with lipgloss styles and
// glamour-rendered descriptions.
package help
