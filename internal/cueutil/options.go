// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds a document read for decoding. Options files hold a
// handful of keys, so 1MiB is generous.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// decodeSettings control one ParseAndDecode or EncodeAndDecode call.
	decodeSettings struct {
		maxFileSize int64
		partial     bool
		filename    string
	}

	// Option adjusts decodeSettings.
	Option func(*decodeSettings)
)

func defaultSettings() decodeSettings {
	return decodeSettings{maxFileSize: DefaultMaxFileSize}
}

func newSettings(opts []Option) decodeSettings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(s *decodeSettings) {
		s.maxFileSize = size
	}
}

// AllowPartial accepts documents that leave schema fields unset. Options
// files use it: keys they omit keep the values from the lower layers.
func AllowPartial() Option {
	return func(s *decodeSettings) {
		s.partial = true
	}
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(s *decodeSettings) {
		s.filename = name
	}
}

// CheckSize returns a FileTooLargeError when size exceeds limit. A limit of
// zero or less means DefaultMaxFileSize.
func CheckSize(filename string, size, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if size > limit {
		return &FileTooLargeError{Filename: filename, Size: size, Limit: limit}
	}
	return nil
}
