// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitCodeSuccess is returned when a command completes without error.
	ExitCodeSuccess ExitCode = 0
	// ExitCodeFailure is returned for command faults, bind errors and unmatched commands.
	ExitCodeFailure ExitCode = 1
	// ExitCodeUnknownOption is returned when the command line carries an undeclared option.
	ExitCodeUnknownOption ExitCode = 129
	// ExitCodeCancelled is returned to the process when a run is interrupted (128 + SIGINT).
	ExitCodeCancelled ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitCodeSuccess }

// IsUsageError returns true if the exit code reports a command-line usage problem
// rather than a fault inside the command body.
func (c ExitCode) IsUsageError() bool { return c == ExitCodeUnknownOption }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
