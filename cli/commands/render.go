package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/petal-labs/voiceprint/slop"
)

// stdoutIsTerminal reports whether rich output should be used.
func (a *App) stdoutIsTerminal() bool {
	if a.noColor {
		return false
	}
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var severityColors = map[slop.Severity]color.Attribute{
	slop.SeverityCritical: color.FgMagenta,
	slop.SeverityHigh:     color.FgRed,
	slop.SeverityMedium:   color.FgYellow,
	slop.SeverityLow:      color.FgCyan,
}

func (a *App) severityLabel(s slop.Severity) string {
	c := color.New(severityColors[s], color.Bold)
	if a.stdoutIsTerminal() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprintf("%-8s", s)
}

// writeReport prints a human-readable slop report.
func (a *App) writeReport(w io.Writer, r slop.Report) {
	a.printf(w, "Slop score: %d/100 (%s)\n", r.Score, r.Summary)
	for _, is := range r.Issues {
		a.printf(w, "  %s %s x%d", a.severityLabel(is.Severity), is.Type, is.Count)
		if len(is.Examples) > 0 {
			quoted := make([]string, len(is.Examples))
			for i, ex := range is.Examples {
				quoted[i] = fmt.Sprintf("%q", ex)
			}
			a.printf(w, "  e.g. %s", strings.Join(quoted, ", "))
		}
		a.printf(w, "\n")
	}
}

// renderMarkdown renders text for a terminal, or returns it unchanged when
// stdout is not one.
func (a *App) renderMarkdown(text string) string {
	if !a.stdoutIsTerminal() {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
