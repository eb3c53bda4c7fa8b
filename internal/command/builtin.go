// SPDX-License-Identifier: MPL-2.0

package command

import (
	"reflect"
	"sync"
)

const (
	// HelpOptionName is the built-in option that prints command help.
	HelpOptionName = "help"
	// HelpOptionShort is the short form of HelpOptionName.
	HelpOptionShort = "h"
	// VersionOptionName is the built-in option that prints the application version.
	VersionOptionName = "version"
	// CompletionOptionName is the built-in option that prints a shell completion script.
	CompletionOptionName = "completion"
	// HelpCommandName names the built-in primary command used when the
	// application declares no primary command.
	HelpCommandName = "help"
	// CompleteCommandName is the hidden command answering shell completion requests.
	CompleteCommandName = "__complete"
)

var (
	boolType   = reflect.TypeFor[bool]()
	stringType = reflect.TypeFor[string]()
)

type (
	// BuiltInOptions selects the built-in commands and options to add.
	BuiltInOptions struct {
		EnableShellCompletion bool
	}

	// BuiltInProvider decorates a provider with the host's reserved commands
	// and options. User declarations with the same names take precedence.
	BuiltInProvider struct {
		inner Provider
		opts  BuiltInOptions

		once       sync.Once
		collection *Collection
		err        error
	}
)

// NewBuiltInProvider wraps inner.
func NewBuiltInProvider(inner Provider, opts BuiltInOptions) *BuiltInProvider {
	return &BuiltInProvider{inner: inner, opts: opts}
}

// Commands returns the user commands extended with the built-ins.
func (p *BuiltInProvider) Commands() (*Collection, error) {
	p.once.Do(func() {
		p.collection, p.err = p.build()
	})
	return p.collection, p.err
}

func (p *BuiltInProvider) build() (*Collection, error) {
	user, err := p.inner.Commands()
	if err != nil {
		return nil, err
	}

	coll := &Collection{All: make([]*Descriptor, 0, len(user.All)+2)}
	for _, d := range user.All {
		cp := d.clone()
		addOption(cp, Option{Name: HelpOptionName, Short: HelpOptionShort, Description: "Show help message", Type: boolType})
		if d == user.Primary {
			addOption(cp, Option{Name: VersionOptionName, Description: "Show version information", Type: boolType})
			if p.opts.EnableShellCompletion {
				addOption(cp, Option{Name: CompletionOptionName, Description: "Generate a shell completion script (bash, zsh, fish, powershell)", Type: stringType})
			}
			coll.Primary = cp
		}
		coll.All = append(coll.All, cp)
	}

	if coll.Primary == nil {
		help := &Descriptor{
			Name:    HelpCommandName,
			Kind:    KindHelp,
			Primary: true,
			Hidden:  true,
		}
		if _, taken := coll.Find(HelpCommandName); taken {
			help.Name = "__" + HelpCommandName
		}
		addOption(help, Option{Name: HelpOptionName, Short: HelpOptionShort, Description: "Show help message", Type: boolType})
		addOption(help, Option{Name: VersionOptionName, Description: "Show version information", Type: boolType})
		if p.opts.EnableShellCompletion {
			addOption(help, Option{Name: CompletionOptionName, Description: "Generate a shell completion script (bash, zsh, fish, powershell)", Type: stringType})
		}
		coll.Primary = help
		coll.All = append(coll.All, help)
	}

	if p.opts.EnableShellCompletion {
		if _, taken := coll.Find(CompleteCommandName); !taken {
			coll.All = append(coll.All, &Descriptor{
				Name:                 CompleteCommandName,
				Kind:                 KindCompletionCandidates,
				Hidden:               true,
				IgnoreUnknownOptions: true,
			})
		}
	}

	return coll, nil
}

// addOption appends a built-in option unless the command already declares
// its long name. A conflicting short name is dropped.
func addOption(d *Descriptor, o Option) {
	if _, exists := d.FindOption(o.Name); exists {
		return
	}
	if o.Short != "" {
		if _, exists := d.FindOption(o.Short); exists {
			o.Short = ""
		}
	}
	o.BuiltIn = true
	d.Options = append(d.Options, o)
}
