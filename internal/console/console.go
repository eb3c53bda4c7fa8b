// SPDX-License-Identifier: MPL-2.0

package console

import (
	"io"
	"os"

	"golang.org/x/term"
)

type (
	// Console groups the streams commands and middleware write to.
	// Nil fields are replaced with the process streams by New.
	Console struct {
		Out io.Writer
		Err io.Writer
		In  io.Reader

		// forceTerminal overrides terminal detection; nil means detect.
		forceTerminal *bool
	}

	// Option customizes a Console.
	Option func(*Console)
)

// WithTerminal forces terminal detection to the given result.
func WithTerminal(isTerminal bool) Option {
	return func(c *Console) { c.forceTerminal = &isTerminal }
}

// New creates a console over the given streams.
func New(out, errOut io.Writer, in io.Reader, opts ...Option) *Console {
	c := &Console{Out: out, Err: errOut, In: in}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Err == nil {
		c.Err = os.Stderr
	}
	if c.In == nil {
		c.In = os.Stdin
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTerminal reports whether Out is an interactive terminal.
func (c *Console) IsTerminal() bool {
	if c.forceTerminal != nil {
		return *c.forceTerminal
	}
	f, ok := c.Out.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of Out, or fallback when Out is not a terminal.
func (c *Console) Width(fallback int) int {
	f, ok := c.Out.(interface{ Fd() uintptr })
	if !ok || !c.IsTerminal() {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
