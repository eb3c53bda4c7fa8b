// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/invowk/cmdhost/pkg/types"
)

// Viper keys of the options.
const (
	KeyApplicationName                = "application_name"
	KeyVersion                        = "version"
	KeyDescription                    = "description"
	KeyTreatPublicMethodsAsCommands   = "treat_public_methods_as_commands"
	KeyConvertOptionNamesToLowerCase  = "convert_option_names_to_lower_case"
	KeyConvertCommandNamesToLowerCase = "convert_command_names_to_lower_case"
	KeyEnableShellCompletion          = "enable_shell_completion"
	KeyVerbose                        = "verbose"
)

// ErrInvalidOptions is the sentinel error wrapped by InvalidOptionsError.
var ErrInvalidOptions = errors.New("invalid options")

type (
	// Options configures a host. They are fixed once the host is built.
	Options struct {
		ApplicationName string `json:"application_name" mapstructure:"application_name"`
		Version         string `json:"version" mapstructure:"version"`
		// Description is shown at the top of the application help.
		Description types.DescriptionText `json:"description" mapstructure:"description"`
		// TreatPublicMethodsAsCommands makes every exported method with a supported
		// signature a command. When false only methods listed in CommandMetadata are.
		TreatPublicMethodsAsCommands   bool `json:"treat_public_methods_as_commands" mapstructure:"treat_public_methods_as_commands"`
		ConvertOptionNamesToLowerCase  bool `json:"convert_option_names_to_lower_case" mapstructure:"convert_option_names_to_lower_case"`
		ConvertCommandNamesToLowerCase bool `json:"convert_command_names_to_lower_case" mapstructure:"convert_command_names_to_lower_case"`
		EnableShellCompletion          bool `json:"enable_shell_completion" mapstructure:"enable_shell_completion"`
		// Verbose enables debug logging and detailed error output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidOptionsError is returned when Options fail validation.
	InvalidOptionsError struct {
		FieldErrors []error
	}
)

// DefaultOptions returns the options used when nothing overrides them.
func DefaultOptions() *Options {
	return &Options{
		ApplicationName:              "app",
		TreatPublicMethodsAsCommands: true,
		EnableShellCompletion:        true,
	}
}

// Validate checks that the options can configure a host.
func (o *Options) Validate() error {
	var errs []error
	if strings.TrimSpace(o.ApplicationName) == "" {
		errs = append(errs, errors.New("application_name must not be empty"))
	}
	if err := o.Description.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidOptionsError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidOptions and the field errors.
func (e *InvalidOptionsError) Unwrap() []error {
	return append([]error{ErrInvalidOptions}, e.FieldErrors...)
}

// EnvPrefix derives the environment variable prefix from an application
// name: "my-app" -> "MY_APP".
func EnvPrefix(appName string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(appName) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(unicode.ToUpper(r))
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
