// SPDX-License-Identifier: MPL-2.0

package command

import (
	"reflect"
	"slices"

	"github.com/invowk/cmdhost/pkg/types"
)

const (
	// KindUser is a command declared by the application.
	KindUser Kind = iota
	// KindHelp is the built-in primary command that prints application help.
	KindHelp
	// KindCompletionCandidates answers shell completion requests.
	KindCompletionCandidates
)

const (
	// InContext receives the run's context.Context.
	InContext InKind = iota
	// InAmbient receives a per-run value supplied by the host (e.g. the app context).
	InAmbient
	// InParams receives the bound parameter struct.
	InParams
	// InService receives a service resolved from the registry.
	InService
)

const (
	// OutNone is a method without results.
	OutNone OutKind = iota
	// OutError is a method returning error.
	OutError
	// OutCode is a method returning int or types.ExitCode.
	OutCode
	// OutCodeError is a method returning (int|types.ExitCode, error).
	OutCodeError
)

type (
	// Kind classifies descriptors into user and built-in commands.
	Kind int

	// InKind classifies a method parameter.
	InKind int

	// OutKind classifies a method's results.
	OutKind int

	// Option describes a named option of a command.
	Option struct {
		Name        string
		Short       string
		Description types.DescriptionText
		Type        reflect.Type
		// FieldIndex locates the backing field in the parameter struct.
		FieldIndex []int
		FieldName  string
		Default    string
		HasDefault bool
		Required   bool
		// BuiltIn options are handled by the host and never bound.
		BuiltIn bool
		Hidden  bool
	}

	// Argument describes a positional argument of a command.
	Argument struct {
		Name        string
		Description types.DescriptionText
		Type        reflect.Type
		FieldIndex  []int
		FieldName   string
		Default     string
		HasDefault  bool
		Required    bool
	}

	// Input describes one method parameter (after the receiver).
	Input struct {
		Kind InKind
		Type reflect.Type
	}

	// Descriptor is the metadata of one command.
	Descriptor struct {
		Name        string
		Aliases     []string
		Description types.DescriptionText
		Kind        Kind
		Primary     bool
		Hidden      bool
		// IgnoreUnknownOptions disables unknown-option rejection for this command.
		IgnoreUnknownOptions bool

		// Type is the declaring struct type; nil for built-ins.
		Type       reflect.Type
		MethodName string
		Inputs     []Input
		Output     OutKind
		// Params is the parameter struct type, nil when the method takes none.
		Params        reflect.Type
		ParamsPointer bool

		Options   []Option
		Arguments []Argument
	}

	// Collection is the full set of commands an application exposes.
	Collection struct {
		All     []*Descriptor
		Primary *Descriptor
	}
)

// IsFlag reports whether the option takes no value.
func (o *Option) IsFlag() bool {
	return o.Type != nil && o.Type.Kind() == reflect.Bool
}

// IsMulti reports whether the option may be repeated.
func (o *Option) IsMulti() bool {
	return o.Type != nil && o.Type.Kind() == reflect.Slice
}

// IsMulti reports whether the argument consumes all remaining values.
func (a *Argument) IsMulti() bool {
	return a.Type != nil && a.Type.Kind() == reflect.Slice
}

// IsBuiltIn reports whether the descriptor is provided by the host.
func (d *Descriptor) IsBuiltIn() bool {
	return d.Kind != KindUser
}

// FindOption returns the option with the given long or short name.
func (d *Descriptor) FindOption(name string) (*Option, bool) {
	for i := range d.Options {
		o := &d.Options[i]
		if o.Name == name || (o.Short != "" && o.Short == name) {
			return o, true
		}
	}
	return nil, false
}

// HasInput reports whether the method takes a parameter of the given kind.
func (d *Descriptor) HasInput(kind InKind) bool {
	return slices.ContainsFunc(d.Inputs, func(in Input) bool { return in.Kind == kind })
}

// Matches reports whether name is the descriptor's name or one of its aliases.
func (d *Descriptor) Matches(name string) bool {
	return d.Name == name || slices.Contains(d.Aliases, name)
}

// Visible returns the commands shown in help listings.
func (c *Collection) Visible() []*Descriptor {
	out := make([]*Descriptor, 0, len(c.All))
	for _, d := range c.All {
		if !d.Hidden {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the command with the given name or alias.
func (c *Collection) Find(name string) (*Descriptor, bool) {
	for _, d := range c.All {
		if d.Matches(name) {
			return d, true
		}
	}
	return nil, false
}

// clone returns a copy whose option slice can be extended independently.
func (d *Descriptor) clone() *Descriptor {
	cp := *d
	cp.Aliases = slices.Clone(d.Aliases)
	cp.Inputs = slices.Clone(d.Inputs)
	cp.Options = slices.Clone(d.Options)
	cp.Arguments = slices.Clone(d.Arguments)
	return &cp
}
