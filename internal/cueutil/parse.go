// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned when the input exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

type (
	// Result holds a decoded value and the unified CUE value it came from.
	Result[T any] struct {
		Value   *T
		Unified cue.Value
	}

	// FileTooLargeError is returned when the input exceeds the size limit.
	FileTooLargeError struct {
		Filename string
		Size     int64
		Limit    int64
	}
)

func (e *FileTooLargeError) Error() string {
	name := e.Filename
	if name == "" {
		name = "input"
	}
	return fmt.Sprintf("%s is %d bytes, limit is %d", name, e.Size, e.Limit)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// ParseAndDecode compiles CUE data, unifies it with the definition defPath
// of schema, validates the result and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, defPath string, opts ...Option) (*Result[T], error) {
	o := newSettings(opts)
	if err := CheckSize(o.filename, int64(len(data)), o.maxFileSize); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	var compileOpts []cue.BuildOption
	if o.filename != "" {
		compileOpts = append(compileOpts, cue.Filename(o.filename))
	}
	user := ctx.CompileBytes(data, compileOpts...)
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}
	return unifyAndDecode[T](ctx, schema, user, defPath, o)
}

// EncodeAndDecode validates a Go value, such as a decoded TOML document,
// against the definition defPath of schema and decodes it into T.
func EncodeAndDecode[T any](schema []byte, raw any, defPath string, opts ...Option) (*Result[T], error) {
	o := newSettings(opts)
	ctx := cuecontext.New()
	user := ctx.Encode(raw)
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}
	return unifyAndDecode[T](ctx, schema, user, defPath, o)
}

func unifyAndDecode[T any](ctx *cue.Context, schema []byte, user cue.Value, defPath string, o decodeSettings) (*Result[T], error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if !def.Exists() {
		return nil, fmt.Errorf("internal error: schema has no definition %s", defPath)
	}

	unified := def.Unify(user)
	if err := unified.Validate(cue.Concrete(!o.partial)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var value T
	if err := unified.Decode(&value); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Result[T]{Value: &value, Unified: unified}, nil
}

// FormatError flattens a CUE error into one error carrying every detail
// line, prefixed with filename when it is known.
func FormatError(err error, filename string) error {
	details := strings.TrimSpace(cueerrors.Details(err, nil))
	if filename == "" {
		return errors.New(details)
	}
	if strings.Contains(details, filename) {
		return errors.New(details)
	}
	return fmt.Errorf("%s: %s", filename, details)
}
