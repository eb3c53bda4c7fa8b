// SPDX-License-Identifier: MPL-2.0

package command

import "testing"

func TestToKebabCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"UserName", "user-name"},
		{"HTTPServer", "http-server"},
		{"ID", "id"},
		{"Port8080", "port8080"},
		{"snake_case", "snake-case"},
		{"already", "already"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := ToKebabCase(tt.in); got != tt.want {
				t.Errorf("ToKebabCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLowerLeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"UserName", "userName"},
		{"URLPath", "urlPath"},
		{"ID", "id"},
		{"lower", "lower"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := lowerLeading(tt.in); got != tt.want {
				t.Errorf("lowerLeading(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
