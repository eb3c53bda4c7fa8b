// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"strconv"
	"strings"

	"github.com/invowk/cmdhost/internal/command"
)

// endOfOptions stops option parsing; every later token is an argument.
const endOfOptions = "--"

type (
	// Option is one occurrence of a declared option.
	Option struct {
		// Token is the option as written, without the value ("--name", "-n").
		Token string
		Value string
		// HasValue is false when a value-taking option was the last token
		// or was followed by another option.
		HasValue   bool
		Position   int
		Descriptor *command.Option
	}

	// UnknownOption is one occurrence of an option the command does not declare.
	UnknownOption struct {
		Token    string
		Name     string
		Value    string
		HasValue bool
		Position int
	}

	// Argument is one positional value.
	Argument struct {
		Value    string
		Position int
	}

	// ParsedCommandLine is the result of parsing a command's arguments.
	ParsedCommandLine struct {
		Options        []Option
		Arguments      []Argument
		UnknownOptions []UnknownOption
		// Raw holds the unparsed arguments that followed the command name.
		Raw []string
	}

	// Parser tokenizes command lines.
	Parser struct{}
)

// Parse tokenizes args against d. Supported forms are "--name value",
// "--name=value", "-n value", "-n=value", bare flags and "--flag=false".
func (Parser) Parse(args []string, d *command.Descriptor) *ParsedCommandLine {
	parsed := &ParsedCommandLine{Raw: args}
	if d == nil {
		d = &command.Descriptor{}
	}

	for i := 0; i < len(args); i++ {
		tok := args[i]

		if tok == endOfOptions {
			for j := i + 1; j < len(args); j++ {
				parsed.Arguments = append(parsed.Arguments, Argument{Value: args[j], Position: j})
			}
			break
		}
		if !isOptionToken(tok) {
			parsed.Arguments = append(parsed.Arguments, Argument{Value: tok, Position: i})
			continue
		}

		prefix := "-"
		if strings.HasPrefix(tok, "--") {
			prefix = "--"
		}
		name, value, hasInline := strings.Cut(tok[len(prefix):], "=")

		opt, known := lookup(d, prefix, name)
		if !known {
			parsed.UnknownOptions = append(parsed.UnknownOptions, UnknownOption{
				Token:    prefix + name,
				Name:     name,
				Value:    value,
				HasValue: hasInline,
				Position: i,
			})
			continue
		}

		occ := Option{Token: prefix + name, Position: i, Descriptor: opt}
		switch {
		case hasInline:
			occ.Value, occ.HasValue = value, true
		case opt.IsFlag():
			occ.Value, occ.HasValue = "true", true
		case i+1 < len(args) && !isOptionToken(args[i+1]) && args[i+1] != endOfOptions:
			i++
			occ.Value, occ.HasValue = args[i], true
		}
		parsed.Options = append(parsed.Options, occ)
	}

	return parsed
}

// Has reports whether the option with the given long name occurred.
func (p *ParsedCommandLine) Has(name string) bool {
	for _, o := range p.Options {
		if o.Descriptor.Name == name {
			return true
		}
	}
	return false
}

// Values returns the values given for the option with the given long name,
// in command-line order.
func (p *ParsedCommandLine) Values(name string) []string {
	var out []string
	for _, o := range p.Options {
		if o.Descriptor.Name == name && o.HasValue {
			out = append(out, o.Value)
		}
	}
	return out
}

// Occurrences returns every occurrence of the option with the given long name.
func (p *ParsedCommandLine) Occurrences(name string) []Option {
	var out []Option
	for _, o := range p.Options {
		if o.Descriptor.Name == name {
			out = append(out, o)
		}
	}
	return out
}

func lookup(d *command.Descriptor, prefix, name string) (*command.Option, bool) {
	if name == "" {
		return nil, false
	}
	for i := range d.Options {
		o := &d.Options[i]
		if (prefix == "--" && o.Name == name) || (prefix == "-" && o.Short != "" && o.Short == name) {
			return o, true
		}
	}
	return nil, false
}

// isOptionToken reports whether tok starts an option. A lone dash and
// negative numbers are values.
func isOptionToken(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' || tok == endOfOptions {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}
