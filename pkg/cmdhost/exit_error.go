// SPDX-License-Identifier: MPL-2.0

package cmdhost

import (
	"fmt"

	"github.com/invowk/cmdhost/pkg/types"
)

// ExitError ends a command with a specific exit code. When Err is set its
// message is printed on the error stream; otherwise the run only exits
// with Code.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Exit returns an ExitError that only carries code.
func Exit(code types.ExitCode) *ExitError {
	return &ExitError{Code: code}
}

// Exitf returns an ExitError with code and a formatted message.
func Exitf(code types.ExitCode, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the code the process exits with.
func (e *ExitError) ExitCode() types.ExitCode {
	return e.Code
}
