// SPDX-License-Identifier: MPL-2.0

package help

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/invowk/cmdhost/internal/command"
	"github.com/invowk/cmdhost/pkg/types"
)

type (
	// Document is a rendered-agnostic help page.
	Document struct {
		Usage       string
		Description types.DescriptionText
		Sections    []Section
	}

	// Section is a titled list of entries ("Commands:", "Options:").
	Section struct {
		Heading string
		Entries []Entry
	}

	// Entry is one aligned label/text row.
	Entry struct {
		Label string
		Text  string
	}

	// AppInfo describes the application for help pages.
	AppInfo struct {
		Name        string
		Description types.DescriptionText
	}
)

// ForApp builds the application help page listing the visible commands.
func ForApp(app AppInfo, coll *command.Collection) Document {
	doc := Document{
		Usage:       fmt.Sprintf("%s [command]", app.Name),
		Description: app.Description,
	}

	var cmds Section
	cmds.Heading = "Commands"
	for _, d := range coll.Visible() {
		label := d.Name
		if len(d.Aliases) > 0 {
			label += ", " + strings.Join(d.Aliases, ", ")
		}
		cmds.Entries = append(cmds.Entries, Entry{Label: label, Text: d.Description.Summary()})
	}
	if len(cmds.Entries) > 0 {
		doc.Sections = append(doc.Sections, cmds)
	}

	if coll.Primary != nil {
		if opts := optionSection(coll.Primary); len(opts.Entries) > 0 {
			doc.Sections = append(doc.Sections, opts)
		}
	}
	return doc
}

// ForCommand builds the help page of one command.
func ForCommand(app AppInfo, d *command.Descriptor, coll *command.Collection) Document {
	if d.Kind == command.KindHelp {
		return ForApp(app, coll)
	}

	doc := Document{
		Usage:       Usage(app.Name, d),
		Description: d.Description,
	}
	if d.Primary && d.Description == "" {
		doc.Description = app.Description
	}

	if len(d.Arguments) > 0 {
		args := Section{Heading: "Arguments"}
		for i, a := range d.Arguments {
			args.Entries = append(args.Entries, Entry{
				Label: fmt.Sprintf("%d: %s", i, a.Name),
				Text:  annotate(a.Description.Summary(), a.Required, a.HasDefault, a.Default),
			})
		}
		doc.Sections = append(doc.Sections, args)
	}
	if opts := optionSection(d); len(opts.Entries) > 0 {
		doc.Sections = append(doc.Sections, opts)
	}

	if d.Primary {
		var others Section
		others.Heading = "Commands"
		for _, c := range coll.Visible() {
			if c != d {
				others.Entries = append(others.Entries, Entry{Label: c.Name, Text: c.Description.Summary()})
			}
		}
		if len(others.Entries) > 0 {
			doc.Sections = append(doc.Sections, others)
		}
	}
	return doc
}

// Usage returns the one-line usage of a command, e.g.
// "greet Greet [--name <string>] [--loud] <target>".
func Usage(appName string, d *command.Descriptor) string {
	parts := []string{appName}
	if !d.Primary {
		parts = append(parts, d.Name)
	}
	for i := range d.Options {
		o := &d.Options[i]
		if o.BuiltIn || o.Hidden {
			continue
		}
		part := "--" + o.Name
		if !o.IsFlag() {
			part += " " + valueLabel(o.Type)
		}
		if !o.Required {
			part = "[" + part + "]"
		}
		if o.IsMulti() {
			part += "..."
		}
		parts = append(parts, part)
	}
	if hasBuiltIn(d) {
		parts = append(parts, "[--help]")
	}
	for _, a := range d.Arguments {
		part := a.Name
		if a.IsMulti() {
			part += "..."
		}
		if a.Required {
			part = "<" + part + ">"
		} else {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func optionSection(d *command.Descriptor) Section {
	s := Section{Heading: "Options"}
	for i := range d.Options {
		o := &d.Options[i]
		if o.Hidden {
			continue
		}
		label := "--" + o.Name
		if o.Short != "" {
			label = "-" + o.Short + ", " + label
		}
		if !o.IsFlag() {
			label += " " + valueLabel(o.Type)
		}
		s.Entries = append(s.Entries, Entry{
			Label: label,
			Text:  annotate(o.Description.Summary(), o.Required, o.HasDefault, o.Default),
		})
	}
	return s
}

func annotate(text string, required, hasDefault bool, def string) string {
	switch {
	case required:
		return strings.TrimSpace(text + " (Required)")
	case hasDefault:
		return strings.TrimSpace(fmt.Sprintf("%s (Default: %s)", text, def))
	default:
		return text
	}
}

func hasBuiltIn(d *command.Descriptor) bool {
	for _, o := range d.Options {
		if o.BuiltIn && o.Name == command.HelpOptionName {
			return true
		}
	}
	return false
}

// valueLabel renders a parameter type as "<string>", "<int>", "<duration>".
func valueLabel(t reflect.Type) string {
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	if t == nil {
		return "<value>"
	}
	name := t.Name()
	if name == "" {
		name = t.Kind().String()
	}
	return "<" + strings.ToLower(name) + ">"
}
