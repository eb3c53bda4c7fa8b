// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/invowk/cmdhost/internal/console"
)

// Streams captures what a console writes.
type Streams struct {
	Out bytes.Buffer
	Err bytes.Buffer
}

// NewConsole returns a non-terminal console writing into the returned
// streams. Input reads from in.
func NewConsole(in string) (*console.Console, *Streams) {
	s := &Streams{}
	return console.New(&s.Out, &s.Err, strings.NewReader(in), console.WithTerminal(false)), s
}

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// MustWriteFile writes content to name inside a fresh temporary directory
// and returns the file's path. The test fails immediately on error.
func MustWriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
