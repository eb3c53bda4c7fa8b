// SPDX-License-Identifier: MPL-2.0

package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// columnGap separates labels from their text.
const columnGap = 2

// Renderer writes help documents.
type Renderer struct {
	// Styled enables lipgloss styles and glamour-rendered descriptions.
	Styled bool
	// Width is the wrap width for rendered markdown; zero disables wrapping.
	Width int
}

// Render writes doc to w.
func (r Renderer) Render(w io.Writer, doc Document) error {
	var sb strings.Builder

	sb.WriteString(r.style(HeadingStyle, "Usage:"))
	sb.WriteString(" ")
	sb.WriteString(doc.Usage)
	sb.WriteString("\n")

	if desc := strings.TrimSpace(doc.Description.String()); desc != "" {
		sb.WriteString("\n")
		sb.WriteString(r.description(desc))
		sb.WriteString("\n")
	}

	for _, s := range doc.Sections {
		sb.WriteString("\n")
		sb.WriteString(r.style(HeadingStyle, s.Heading+":"))
		sb.WriteString("\n")

		width := 0
		for _, e := range s.Entries {
			width = max(width, lipgloss.Width(e.Label))
		}
		for _, e := range s.Entries {
			pad := strings.Repeat(" ", width-lipgloss.Width(e.Label)+columnGap)
			line := "  " + r.style(LabelStyle, e.Label)
			if e.Text != "" {
				line += pad + r.style(TextStyle, e.Text)
			}
			sb.WriteString(strings.TrimRight(line, " "))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderError writes "error: <msg>" followed by an optional usage line.
func (r Renderer) RenderError(w io.Writer, msg, usage string) error {
	text := fmt.Sprintf("%s %s\n", r.style(ErrorStyle, "error:"), msg)
	if usage != "" {
		text += fmt.Sprintf("%s %s\n", r.style(HeadingStyle, "Usage:"), usage)
	}
	_, err := io.WriteString(w, text)
	return err
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}

func (r Renderer) description(desc string) string {
	if !r.Styled {
		return desc
	}

	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return desc
	}
	out, err := tr.Render(desc)
	if err != nil {
		return desc
	}
	return strings.Trim(out, "\n")
}
