// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"
	"time"
)

type level string

func TestConverterConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		typ  reflect.Type
		want any
	}{
		{"string", "Ada", reflect.TypeFor[string](), "Ada"},
		{"named string", "debug", reflect.TypeFor[level](), level("debug")},
		{"bool", "true", reflect.TypeFor[bool](), true},
		{"int", "42", reflect.TypeFor[int](), 42},
		{"leading zero is decimal", "010", reflect.TypeFor[int](), 10},
		{"leading zero uint", "007", reflect.TypeFor[uint](), uint(7)},
		{"negative int8", "-8", reflect.TypeFor[int8](), int8(-8)},
		{"uint16", "65535", reflect.TypeFor[uint16](), uint16(65535)},
		{"float", "1.5", reflect.TypeFor[float64](), 1.5},
		{"duration", "1m30s", reflect.TypeFor[time.Duration](), 90 * time.Second},
		{"text unmarshaler", "127.0.0.1", reflect.TypeFor[netip.Addr](), netip.MustParseAddr("127.0.0.1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Converter{}.Convert(tt.in, tt.typ)
			if err != nil {
				t.Fatalf("Convert(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got.Interface(), tt.want) {
				t.Errorf("Convert(%q) = %v, want %v", tt.in, got.Interface(), tt.want)
			}
		})
	}
}

func TestConverterPointer(t *testing.T) {
	t.Parallel()

	got, err := Converter{}.Convert("7", reflect.TypeFor[*int]())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	p, ok := got.Interface().(*int)
	if !ok || *p != 7 {
		t.Errorf("Convert() = %v, want pointer to 7", got.Interface())
	}
}

func TestConverterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		typ  reflect.Type
	}{
		{"not an int", "abc", reflect.TypeFor[int]()},
		{"overflow", "300", reflect.TypeFor[int8]()},
		{"hex int", "0x10", reflect.TypeFor[int]()},
		{"binary int", "0b11", reflect.TypeFor[int]()},
		{"underscored int", "1_000", reflect.TypeFor[int64]()},
		{"hex uint", "0x10", reflect.TypeFor[uint32]()},
		{"not a bool", "maybe", reflect.TypeFor[bool]()},
		{"bad addr", "nope", reflect.TypeFor[netip.Addr]()},
		{"unsupported", "x", reflect.TypeFor[map[string]string]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Converter{}.Convert(tt.in, tt.typ)
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("Convert(%q) error = %v, want ConversionError", tt.in, err)
			}
			if convErr.Value != tt.in {
				t.Errorf("ConversionError.Value = %q, want %q", convErr.Value, tt.in)
			}
		})
	}
}
