// SPDX-License-Identifier: MPL-2.0

// Package commandline tokenizes the arguments that follow a command name
// against the command's declared options and positional arguments.
//
// Parsing never fails. Options the command does not declare are recorded as
// unknown and left to the caller to reject; missing option values are
// recorded and reported when parameters are bound.
package commandline
