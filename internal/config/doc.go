// SPDX-License-Identifier: MPL-2.0

// Package config loads host options using Viper.
//
// Options are layered: built-in defaults, then an optional options file, then
// environment variables named <PREFIX>_<KEY>. Options files are either CUE or
// TOML; both are validated against the embedded CUE schema (options_schema.cue)
// before being merged, so unknown keys and wrong types are rejected with the
// file position of the offending value.
package config
