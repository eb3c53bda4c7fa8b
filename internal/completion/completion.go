// SPDX-License-Identifier: MPL-2.0

// Package completion generates shell completion scripts and answers
// completion requests by mirroring the command descriptors into a cobra
// command tree and delegating to cobra's completion machinery.
package completion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/cmdhost/internal/command"
)

// treeHelpCommand names cobra's implicit help subcommand in the mirror tree.
const treeHelpCommand = "__tree_help"

// Supported shell names.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// ErrUnsupportedShell is the sentinel error wrapped by UnsupportedShellError.
var ErrUnsupportedShell = errors.New("unsupported shell")

// UnsupportedShellError is returned for a shell name without a script generator.
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell %q (supported: %s)", e.Shell, strings.Join(Shells(), ", "))
}

// Unwrap returns ErrUnsupportedShell for errors.Is() compatibility.
func (e *UnsupportedShellError) Unwrap() error { return ErrUnsupportedShell }

// Shells returns the shells scripts can be generated for.
func Shells() []string {
	return []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell}
}

// NewTree builds a cobra command tree mirroring coll. The primary command's
// options become root flags; every other visible user command becomes a
// subcommand. The tree is only used for completion and never executed.
func NewTree(appName string, coll *command.Collection) *cobra.Command {
	root := &cobra.Command{
		Use:  appName,
		Run:  func(*cobra.Command, []string) {},
		Args: cobra.ArbitraryArgs,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	// cobra always offers its help subcommand as a candidate; Complete drops it.
	root.SetHelpCommand(&cobra.Command{Use: treeHelpCommand, Hidden: true})

	if coll.Primary != nil {
		addFlags(root, coll.Primary)
	}
	for _, d := range coll.All {
		if d.IsBuiltIn() || d.Hidden || d == coll.Primary {
			continue
		}
		sub := &cobra.Command{
			Use:     d.Name,
			Aliases: slices.Clone(d.Aliases),
			Short:   d.Description.Summary(),
			Run:     func(*cobra.Command, []string) {},
			Args:    cobra.ArbitraryArgs,
		}
		addFlags(sub, d)
		root.AddCommand(sub)
	}
	return root
}

func addFlags(c *cobra.Command, d *command.Descriptor) {
	flags := c.Flags()
	for i := range d.Options {
		o := &d.Options[i]
		if o.Hidden || flags.Lookup(o.Name) != nil {
			continue
		}
		short := o.Short
		if short != "" && flags.ShorthandLookup(short) != nil {
			short = ""
		}
		usage := o.Description.Summary()
		switch {
		case o.IsFlag():
			flags.BoolP(o.Name, short, false, usage)
		case o.IsMulti():
			flags.StringSliceP(o.Name, short, nil, usage)
		default:
			flags.StringP(o.Name, short, o.Default, usage)
		}
		if o.BuiltIn && o.Name == command.CompletionOptionName {
			_ = c.RegisterFlagCompletionFunc(o.Name, cobra.FixedCompletions(Shells(), cobra.ShellCompDirectiveNoFileComp))
		}
	}
}

// WriteScript writes the completion script for shell to w.
func WriteScript(w io.Writer, appName string, coll *command.Collection, shell string) error {
	root := NewTree(appName, coll)
	switch strings.ToLower(shell) {
	case ShellBash:
		return root.GenBashCompletionV2(w, true)
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return &UnsupportedShellError{Shell: shell}
	}
}

// Complete answers a completion request. args are the words following the
// hidden completion command, the last one being the word under the cursor.
// Candidates are written to w in cobra's completion protocol.
func Complete(ctx context.Context, w io.Writer, appName string, coll *command.Collection, args []string) error {
	root := NewTree(appName, coll)
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}

	var out strings.Builder
	for line := range strings.SplitAfterSeq(buf.String(), "\n") {
		if name, _, _ := strings.Cut(strings.TrimSuffix(line, "\n"), "\t"); name == treeHelpCommand {
			continue
		}
		out.WriteString(line)
	}
	_, err := io.WriteString(w, out.String())
	return err
}
