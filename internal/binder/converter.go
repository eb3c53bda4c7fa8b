// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"encoding"
	"reflect"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	timeType            = reflect.TypeFor[time.Time]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Converter turns command-line strings into values of a parameter type.
// Integers are always read as decimal.
type Converter struct{}

// Convert returns s converted to t. Pointer types are allocated; slices are
// handled by the caller one element at a time.
func (c Converter) Convert(s string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		elem, err := c.Convert(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &ConversionError{Value: s, Type: t.String(), Err: err}
	}

	switch {
	case t == durationType:
		d, err := cast.ToDurationE(s)
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(d), nil
	case t == timeType:
		tm, err := cast.ToTimeE(s)
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(tm), nil
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return fail(err)
		}
		return v.Elem(), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(s)
		if err != nil {
			return fail(err)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fail(err)
		}
		if v.OverflowInt(n) {
			return fail(errOverflow)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fail(err)
		}
		if v.OverflowUint(n) {
			return fail(errOverflow)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return fail(err)
		}
		if v.OverflowFloat(f) {
			return fail(errOverflow)
		}
		v.SetFloat(f)
	default:
		return fail(errUnsupportedType)
	}
	return v, nil
}
