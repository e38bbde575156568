package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// Renderer turns a turn response into terminal text.
type Renderer func(domain.Response) string

// NewRenderer returns a glamour-backed renderer for interactive terminals,
// or a plain one when styled is false (pipes, CI logs).
func NewRenderer(styled bool) Renderer {
	if !styled {
		return Plain
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return Plain
	}
	return func(resp domain.Response) string {
		out, err := r.Render(Markdown(resp))
		if err != nil {
			return Plain(resp)
		}
		return out
	}
}

// Markdown lays a response out as a small markdown document: the spoken text,
// the display lines as a quote, then any card and the reprompt.
func Markdown(resp domain.Response) string {
	var b strings.Builder
	b.WriteString(resp.Spoken)
	b.WriteString("\n")

	if resp.Display != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(resp.Display, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
	}
	if resp.Card != nil {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", resp.Card.Title, resp.Card.Text)
	}
	if resp.Prompt != "" {
		fmt.Fprintf(&b, "\n_%s_\n", resp.Prompt)
	}
	return b.String()
}

// Plain renders without styling.
func Plain(resp domain.Response) string {
	var b strings.Builder
	b.WriteString(resp.Spoken)
	b.WriteString("\n")
	if resp.Display != "" {
		for _, line := range strings.Split(resp.Display, "\n") {
			fmt.Fprintf(&b, "  | %s\n", line)
		}
	}
	if resp.Card != nil {
		fmt.Fprintf(&b, "  [%s] %s\n", resp.Card.Title, resp.Card.Text)
	}
	if resp.Prompt != "" {
		fmt.Fprintf(&b, "  (%s)\n", resp.Prompt)
	}
	return b.String()
}
