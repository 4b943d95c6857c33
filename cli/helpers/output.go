package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/compozy/tagflat/engine/rewrite"
	"github.com/mattn/go-isatty"
)

var (
	labelStyle     = lipgloss.NewStyle().Bold(true)
	flattenedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer renders batch summaries
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer that styles output only for terminals and
// never when logs are emitted as JSON.
func NewPrinter(out io.Writer, jsonLogs bool) *Printer {
	return &Printer{out: out, color: !jsonLogs && IsTerminal(out)}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Summary prints one line with the count of each status in the report
func (p *Printer) Summary(report *rewrite.Report) {
	verb := "flattened"
	if report.DryRun {
		verb = "would flatten"
	}
	parts := []string{
		p.style(flattenedStyle, fmt.Sprintf("%d %s", report.Count(rewrite.StatusFlattened), verb)),
		fmt.Sprintf("%d unchanged", report.Count(rewrite.StatusUnchanged)),
	}
	if n := report.Count(rewrite.StatusSkipped); n > 0 {
		parts = append(parts, p.style(skippedStyle, fmt.Sprintf("%d skipped", n)))
	}
	if n := report.Count(rewrite.StatusNotFound); n > 0 {
		parts = append(parts, p.style(skippedStyle, fmt.Sprintf("%d not found", n)))
	}
	if n := report.Count(rewrite.StatusFailed); n > 0 {
		parts = append(parts, p.style(failedStyle, fmt.Sprintf("%d failed", n)))
	}
	fmt.Fprintf(p.out, "%s %s %s\n",
		p.style(labelStyle, "tagflat:"),
		strings.Join(parts, ", "),
		p.style(mutedStyle, fmt.Sprintf("(%d tags)", report.Tags())),
	)
}

// Paths prints one path per line under a heading
func (p *Printer) Paths(heading string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(p.out, p.style(labelStyle, heading))
	for _, path := range paths {
		fmt.Fprintf(p.out, "  %s\n", path)
	}
}
