// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Catalog identifiers.
const (
	CommandNotFoundId Id = iota + 1
	UnknownOptionId
	ParameterBindFailedId
	CommandFailedId
	OptionsLoadFailedId
	UnsupportedShellId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// Issue is a catalog entry: guidance shown to the user for a class of failure.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []string
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id { return i.id }

// Title returns the one-line heading of the entry.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []string { return slices.Clone(i.docLinks) }

// Markdown returns the full document: title, body and links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(i.title)
	sb.WriteString("\n")
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- ")
			sb.WriteString(link)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Render renders the entry for a terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

// MarkdownFor returns Markdown with the "<app>" placeholder replaced by appName.
func (i *Issue) MarkdownFor(appName string) string {
	return strings.ReplaceAll(i.Markdown(), "<app>", appName)
}

// RenderFor renders MarkdownFor(appName) with the given glamour style.
func (i *Issue) RenderFor(appName, stylePath string) (string, error) {
	return render(i.MarkdownFor(appName), stylePath)
}

var render = glamour.Render

var (
	commandNotFoundIssue = &Issue{
		id:    CommandNotFoundId,
		title: "Command not found",
		mdMsg: `
The first argument did not name any command this application declares.

## Things you can try
- List the available commands:
~~~
$ <app> --help
~~~
- Check the spelling; command names are case-sensitive unless the
  application lower-cases them.`,
	}

	unknownOptionIssue = &Issue{
		id:    UnknownOptionId,
		title: "Unknown option",
		mdMsg: `
The command line carries an option the command does not declare, so the
command was not run.

## Things you can try
- Show the options the command accepts:
~~~
$ <app> <command> --help
~~~
- Put values that start with a dash after ` + "`--`" + ` so they are read as arguments.`,
	}

	parameterBindFailedIssue = &Issue{
		id:    ParameterBindFailedId,
		title: "Invalid command parameters",
		mdMsg: `
A value could not be converted to the parameter's type, a required option or
argument is missing, or a validation rule rejected the value.

## Things you can try
- Check the usage line printed above the error.
- Quote values that contain spaces.`,
	}

	commandFailedIssue = &Issue{
		id:    CommandFailedId,
		title: "Command failed",
		mdMsg: `
The command body returned an error or panicked. The error chain above shows
the original fault.`,
	}

	optionsLoadFailedIssue = &Issue{
		id:    OptionsLoadFailedId,
		title: "Options file could not be loaded",
		mdMsg: `
The options file is missing, is not valid CUE or TOML, or does not match the
options schema. Unknown fields are rejected.

## Example
~~~cue
application_name: "greet"
convert_command_names_to_lower_case: true
~~~`,
	}

	unsupportedShellIssue = &Issue{
		id:    UnsupportedShellId,
		title: "Unsupported shell",
		mdMsg: `
Completion scripts are generated for bash, zsh, fish and powershell.

~~~
$ <app> --completion bash > /etc/bash_completion.d/<app>
~~~`,
	}

	issues = map[Id]*Issue{
		commandNotFoundIssue.id:     commandNotFoundIssue,
		unknownOptionIssue.id:       unknownOptionIssue,
		parameterBindFailedIssue.id: parameterBindFailedIssue,
		commandFailedIssue.id:       commandFailedIssue,
		optionsLoadFailedIssue.id:   optionsLoadFailedIssue,
		unsupportedShellIssue.id:    unsupportedShellIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
