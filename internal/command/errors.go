// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrInvalidCommandType is the sentinel error wrapped by InvalidCommandTypeError.
	ErrInvalidCommandType = errors.New("invalid command type")
	// ErrInvalidCommandMethod is the sentinel error wrapped by InvalidCommandMethodError.
	ErrInvalidCommandMethod = errors.New("invalid command method")
	// ErrDuplicateCommand is the sentinel error wrapped by DuplicateCommandError.
	ErrDuplicateCommand = errors.New("duplicate command")
	// ErrCommandNotFound is the sentinel error wrapped by CommandNotFoundError.
	ErrCommandNotFound = errors.New("command not found")
)

type (
	// InvalidCommandTypeError is returned for a declared value that is not a struct or pointer to struct.
	InvalidCommandTypeError struct {
		Type reflect.Type
	}

	// InvalidCommandMethodError is returned when a method named as a command has an unsupported
	// signature or parameter struct.
	InvalidCommandMethodError struct {
		Type   reflect.Type
		Method string
		Reason string
	}

	// DuplicateCommandError is returned when two commands share a name or alias.
	DuplicateCommandError struct {
		Name string
	}

	// CommandNotFoundError is returned by the matcher when the command-name token
	// names no command. Similar lists close matches for suggestions.
	CommandNotFoundError struct {
		Name    string
		Similar []string
	}
)

func (e *InvalidCommandTypeError) Error() string {
	return fmt.Sprintf("command type %s must be a struct or a pointer to a struct", typeName(e.Type))
}

// Unwrap returns ErrInvalidCommandType for errors.Is() compatibility.
func (e *InvalidCommandTypeError) Unwrap() error { return ErrInvalidCommandType }

func (e *InvalidCommandMethodError) Error() string {
	return fmt.Sprintf("command %s.%s: %s", typeName(e.Type), e.Method, e.Reason)
}

// Unwrap returns ErrInvalidCommandMethod for errors.Is() compatibility.
func (e *InvalidCommandMethodError) Unwrap() error { return ErrInvalidCommandMethod }

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command name %q is declared more than once", e.Name)
}

// Unwrap returns ErrDuplicateCommand for errors.Is() compatibility.
func (e *DuplicateCommandError) Unwrap() error { return ErrDuplicateCommand }

func (e *CommandNotFoundError) Error() string {
	if e.Name == "" {
		return "no command specified"
	}
	msg := fmt.Sprintf("'%s' is not a command", e.Name)
	if len(e.Similar) > 0 {
		msg += "; similar commands: " + strings.Join(e.Similar, ", ")
	}
	return msg
}

// Unwrap returns ErrCommandNotFound for errors.Is() compatibility.
func (e *CommandNotFoundError) Unwrap() error { return ErrCommandNotFound }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
