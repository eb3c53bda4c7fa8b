// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/invowk/cmdhost/internal/cueutil"
	"github.com/invowk/cmdhost/internal/issue"
	"github.com/invowk/cmdhost/pkg/types"
)

// optionsDefinition is the schema definition options files are checked against.
const optionsDefinition = "#Options"

//go:embed options_schema.cue
var optionsSchema string

// ErrUnsupportedFileType is returned for options files that are neither CUE nor TOML.
var ErrUnsupportedFileType = errors.New("unsupported options file type")

// loadWithOptions layers defaults, the options file and the environment.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Options, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load options canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := opts.Defaults
	if defaults == nil {
		defaults = DefaultOptions()
	}
	v.SetDefault(KeyApplicationName, defaults.ApplicationName)
	v.SetDefault(KeyVersion, defaults.Version)
	v.SetDefault(KeyDescription, defaults.Description.String())
	v.SetDefault(KeyTreatPublicMethodsAsCommands, defaults.TreatPublicMethodsAsCommands)
	v.SetDefault(KeyConvertOptionNamesToLowerCase, defaults.ConvertOptionNamesToLowerCase)
	v.SetDefault(KeyConvertCommandNamesToLowerCase, defaults.ConvertCommandNamesToLowerCase)
	v.SetDefault(KeyEnableShellCompletion, defaults.EnableShellCompletion)
	v.SetDefault(KeyVerbose, defaults.Verbose)

	if path := opts.ConfigFilePath; path.IsSet() {
		if err := loadFileIntoViper(v, path); err != nil {
			return nil, err
		}
	}

	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	}

	var out Options
	if err := v.Unmarshal(&out); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load options").
			WithSuggestion("Check that boolean environment overrides are 'true' or 'false'").
			Wrap(err).
			BuildError()
	}
	if err := out.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate options").
			Wrap(err).
			BuildError()
	}
	return &out, nil
}

func loadFileIntoViper(v *viper.Viper, fp types.FilesystemPath) error {
	path := fp.String()
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", path)
		}
		return issue.NewErrorContext().
			WithOperation("load options").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			Wrap(err).
			BuildError()
	}

	var load func(*viper.Viper, string) error
	switch ext := fp.Ext(); ext {
	case "cue":
		load = loadCUEIntoViper
	case "toml":
		load = loadTOMLIntoViper
	default:
		return issue.NewErrorContext().
			WithOperation("load options").
			WithResource(path).
			WithSuggestion("Use a .cue or .toml options file").
			Wrap(fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)).
			BuildError()
	}

	if err := load(v, path); err != nil {
		return issue.NewErrorContext().
			WithOperation("load options").
			WithResource(path).
			WithSuggestion("Check the file syntax").
			WithSuggestion("Verify the option names and value types match the options schema").
			Wrap(err).
			BuildError()
	}
	return nil
}

// loadCUEIntoViper compiles a CUE options file, validates it against
// #Options and merges it into v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := readOptionsFile(path)
	if err != nil {
		return err
	}

	result, err := cueutil.ParseAndDecode[map[string]any](schemaBytes(), data, optionsDefinition,
		cueutil.WithFilename(path),
		cueutil.AllowPartial(),
	)
	if err != nil {
		return err
	}
	return mergeOptions(v, *result.Value)
}

// loadTOMLIntoViper decodes a TOML options file and validates it against
// the same schema as CUE files.
func loadTOMLIntoViper(v *viper.Viper, path string) error {
	data, err := readOptionsFile(path)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%s:%d:%d: %s", path, row, col, derr.Error())
		}
		return fmt.Errorf("%s: %w", path, err)
	}

	result, err := cueutil.EncodeAndDecode[map[string]any](schemaBytes(), raw, optionsDefinition,
		cueutil.WithFilename(path),
		cueutil.AllowPartial(),
	)
	if err != nil {
		return err
	}
	return mergeOptions(v, *result.Value)
}

func mergeOptions(v *viper.Viper, options map[string]any) error {
	if err := v.MergeConfigMap(options); err != nil {
		return fmt.Errorf("failed to merge options: %w", err)
	}
	return nil
}

func schemaBytes() []byte {
	return []byte(optionsSchema)
}

func readOptionsFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	if err := cueutil.CheckSize(path, int64(len(data)), cueutil.DefaultMaxFileSize); err != nil {
		return nil, err
	}
	return data, nil
}
