// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/internal/commandline"
)

// Binder builds parameter structs from parsed command lines.
type Binder struct {
	converter Converter
	validate  *validator.Validate
}

// New creates a Binder.
func New() *Binder {
	return &Binder{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Bind builds the parameter value of d from parsed. The returned value has
// d's parameter type (a struct or a pointer to one) and is invalid when the
// command takes no parameter struct. Every failure is a *ParameterBindError.
func (b *Binder) Bind(d *command.Descriptor, parsed *commandline.ParsedCommandLine) (reflect.Value, error) {
	for _, occ := range parsed.Options {
		if !occ.HasValue {
			return reflect.Value{}, b.fail(d, occ.Token, "a value is required", nil)
		}
	}
	if len(parsed.Arguments) > len(d.Arguments) && (len(d.Arguments) == 0 || !d.Arguments[len(d.Arguments)-1].IsMulti()) {
		extra := parsed.Arguments[len(d.Arguments)]
		return reflect.Value{}, b.fail(d, "", fmt.Sprintf("unexpected argument '%s'", extra.Value), nil)
	}

	if d.Params == nil {
		return reflect.Value{}, nil
	}

	ptr := reflect.New(d.Params)
	params := ptr.Elem()

	for i := range d.Options {
		o := &d.Options[i]
		if o.BuiltIn || o.FieldIndex == nil {
			continue
		}
		if err := b.bindOption(d, o, parsed, params); err != nil {
			return reflect.Value{}, err
		}
	}

	for i := range d.Arguments {
		if err := b.bindArgument(d, i, parsed, params); err != nil {
			return reflect.Value{}, err
		}
	}

	if err := b.validate.Struct(ptr.Interface()); err != nil {
		return reflect.Value{}, b.validationError(d, err)
	}

	if d.ParamsPointer {
		return ptr, nil
	}
	return params, nil
}

func (b *Binder) bindOption(d *command.Descriptor, o *command.Option, parsed *commandline.ParsedCommandLine, params reflect.Value) error {
	token := "--" + o.Name
	field := params.FieldByIndex(o.FieldIndex)

	values := parsed.Values(o.Name)
	if len(values) == 0 {
		switch {
		case o.HasDefault:
			values = splitDefault(o.Default, o.IsMulti())
		case o.Required:
			return b.fail(d, token, "option is required", nil)
		default:
			return nil
		}
	}

	if o.IsMulti() {
		return b.setSlice(d, token, field, values)
	}
	// The last occurrence wins for single-value options.
	v, err := b.converter.Convert(values[len(values)-1], field.Type())
	if err != nil {
		return b.fail(d, token, "invalid value", err)
	}
	field.Set(v)
	return nil
}

func (b *Binder) bindArgument(d *command.Descriptor, idx int, parsed *commandline.ParsedCommandLine, params reflect.Value) error {
	a := &d.Arguments[idx]
	field := params.FieldByIndex(a.FieldIndex)

	var values []string
	switch {
	case a.IsMulti() && idx < len(parsed.Arguments):
		for _, arg := range parsed.Arguments[idx:] {
			values = append(values, arg.Value)
		}
	case idx < len(parsed.Arguments):
		values = []string{parsed.Arguments[idx].Value}
	case a.HasDefault:
		values = splitDefault(a.Default, a.IsMulti())
	case a.Required:
		return b.fail(d, a.Name, "argument is required", nil)
	default:
		return nil
	}

	if a.IsMulti() {
		return b.setSlice(d, a.Name, field, values)
	}
	v, err := b.converter.Convert(values[0], field.Type())
	if err != nil {
		return b.fail(d, a.Name, "invalid value", err)
	}
	field.Set(v)
	return nil
}

func (b *Binder) setSlice(d *command.Descriptor, param string, field reflect.Value, values []string) error {
	slice := reflect.MakeSlice(field.Type(), 0, len(values))
	for _, s := range values {
		v, err := b.converter.Convert(s, field.Type().Elem())
		if err != nil {
			return b.fail(d, param, "invalid value", err)
		}
		slice = reflect.Append(slice, v)
	}
	field.Set(slice)
	return nil
}

func (b *Binder) validationError(d *command.Descriptor, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return b.fail(d, "", "invalid parameters", err)
	}

	fe := verrs[0]
	param := fe.StructField()
	for _, o := range d.Options {
		if o.FieldName == fe.StructField() {
			param = "--" + o.Name
		}
	}
	for _, a := range d.Arguments {
		if a.FieldName == fe.StructField() {
			param = a.Name
		}
	}

	reason := fmt.Sprintf("failed '%s' validation", fe.Tag())
	if fe.Param() != "" {
		reason = fmt.Sprintf("failed '%s=%s' validation", fe.Tag(), fe.Param())
	}
	return b.fail(d, param, reason, nil)
}

func (b *Binder) fail(d *command.Descriptor, param, reason string, err error) error {
	return &ParameterBindError{Command: d.Name, Parameter: param, Reason: reason, Err: err}
}

func splitDefault(def string, multi bool) []string {
	if !multi {
		return []string{def}
	}
	if def == "" {
		return nil
	}
	return strings.Split(def, ",")
}
