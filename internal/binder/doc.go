// SPDX-License-Identifier: MPL-2.0

// Package binder converts a parsed command line into a command's parameter
// struct: values are converted with spf13/cast, defaults and required-ness
// are applied, and the result is validated with go-playground/validator.
package binder
