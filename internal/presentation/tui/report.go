package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/conform/pkg/schema"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output formats of a validation report.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Report is the outcome of checking one input against one schema.
type Report struct {
	Source string
	Schema string
	Result schema.Result
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ProfileFor picks the color profile for f: detected colors on a terminal, none otherwise.
func ProfileFor(f *os.File) termenv.Profile {
	if !IsTerminal(f) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).Profile
}

// Write renders r to w in the given format.
// Colors are only used by the text format and only if p allows them.
func Write(w io.Writer, r Report, format string, p termenv.Profile) error {
	switch format {
	case "", FormatText:
		return WriteText(w, r, p)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		render, err := NewRenderer(p != termenv.Ascii)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := render(Markdown(r))
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or markdown)", format)
	}
}

// WriteText writes a short human readable report.
func WriteText(w io.Writer, r Report, p termenv.Profile) error {
	if r.Result.Success() {
		mark := p.String("✔").Foreground(p.Color("#22c55e"))
		_, err := fmt.Fprintf(w, "%s %s conforms to %s\n", mark, r.Source, r.Schema)
		return err
	}

	mark := p.String("✘").Foreground(p.Color("#ef4444"))
	if _, err := fmt.Fprintf(w, "%s %s does not conform to %s\n", mark, r.Source, r.Schema); err != nil {
		return err
	}
	for _, issue := range schema.Issues(r.Result.Err()) {
		path := p.String(pathLabel(issue.Path)).Bold()
		if _, err := fmt.Fprintf(w, "  %s: %s\n", path, issue.Message); err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	Source  string          `json:"source"`
	Schema  string          `json:"schema"`
	Valid   bool            `json:"valid"`
	Message string          `json:"message,omitempty"`
	Issues  []schema.Issue  `json:"issues,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// WriteJSON writes the report as a JSON object, including the nested error tree.
func WriteJSON(w io.Writer, r Report) error {
	out := jsonReport{Source: r.Source, Schema: r.Schema, Valid: r.Result.Success()}
	if !out.Valid {
		tree, err := schema.MarshalError(r.Result.Err())
		if err != nil {
			return err
		}
		out.Message = r.Result.Description()
		out.Issues = schema.Issues(r.Result.Err())
		out.Error = tree
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Markdown renders the report as a markdown document.
func Markdown(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Source)
	fmt.Fprintf(&b, "Schema: `%s`\n\n", r.Schema)
	if r.Result.Success() {
		b.WriteString("**Valid.**\n")
		return b.String()
	}

	b.WriteString("**Invalid.**\n\n")
	b.WriteString("| Path | Problem |\n|---|---|\n")
	for _, issue := range schema.Issues(r.Result.Err()) {
		fmt.Fprintf(&b, "| `%s` | %s |\n", pathLabel(issue.Path), strings.ReplaceAll(issue.Message, "|", "\\|"))
	}
	return b.String()
}

func pathLabel(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
