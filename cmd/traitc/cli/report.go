// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/compose"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

// Report renders human-readable command output. Styles apply only
// when the writer is a terminal; otherwise output is plain text.
type Report struct {
	writer io.Writer

	heading  lipgloss.Style
	errorTag lipgloss.Style
	warnTag  lipgloss.Style
	infoTag  lipgloss.Style
	code     lipgloss.Style
	location lipgloss.Style
	hint     lipgloss.Style
	winner   lipgloss.Style
}

// NewReport returns a Report writing to w.
func NewReport(w io.Writer) *Report {
	report := &Report{writer: w}
	if file, ok := w.(*os.File); !ok || !term.IsTerminal(int(file.Fd())) {
		return report
	}

	renderer := lipgloss.NewRenderer(w)
	report.heading = renderer.NewStyle().Bold(true).Underline(true)
	report.errorTag = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	report.warnTag = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	report.infoTag = renderer.NewStyle().Foreground(lipgloss.Color("12"))
	report.code = renderer.NewStyle().Bold(true)
	report.location = renderer.NewStyle().Foreground(lipgloss.Color("14"))
	report.hint = renderer.NewStyle().Faint(true)
	report.winner = renderer.NewStyle().Foreground(lipgloss.Color("10"))
	return report
}

// Heading writes a section title.
func (r *Report) Heading(title string) {
	fmt.Fprintln(r.writer, r.heading.Render(title))
}

// Line writes a formatted line.
func (r *Report) Line(format string, args ...any) {
	fmt.Fprintf(r.writer, format+"\n", args...)
}

// Table writes rows aligned in columns, each indented two spaces.
func (r *Report) Table(rows [][]string) {
	tw := tabwriter.NewWriter(r.writer, 2, 0, 3, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (r *Report) severity(severity issue.Severity) string {
	switch severity {
	case issue.SeverityError:
		return r.errorTag.Render("error")
	case issue.SeverityWarning:
		return r.warnTag.Render("warning")
	default:
		return r.infoTag.Render(string(severity))
	}
}

// Issues writes one entry per issue followed by a count summary.
func (r *Report) Issues(issues []issue.Issue) {
	for _, each := range issues {
		where := each.Location.Path
		if each.Location.File != "" {
			where = each.Location.File + ":" + where
		}
		if where == "" {
			where = "(root)"
		}
		fmt.Fprintf(r.writer, "%s %s %s: %s\n",
			r.code.Render(each.Code.String()),
			r.severity(each.Severity),
			r.location.Render(where),
			each.Message)
		if each.FixHint != "" {
			fmt.Fprintf(r.writer, "    %s\n", r.hint.Render("hint: "+each.FixHint))
		}
	}

	errors, warnings := issue.Count(issues)
	fmt.Fprintf(r.writer, "%d %s, %d %s\n",
		errors, plural("error", errors), warnings, plural("warning", warnings))
}

// Collisions writes the collision log of a composed object.
func (r *Report) Collisions(collisions []compose.Collision) {
	if len(collisions) == 0 {
		fmt.Fprintln(r.writer, "  none")
		return
	}
	for _, collision := range collisions {
		fmt.Fprintf(r.writer, "  %s  %s  %s -> %s\n",
			r.location.Render(collision.Path()),
			collision.Resolution,
			strings.Join(collision.ConflictingTraits, " vs "),
			r.winner.Render(collision.Winner))
		if collision.Details != "" {
			fmt.Fprintf(r.writer, "    %s\n", r.hint.Render(collision.Details))
		}
	}
}

func plural(noun string, count int) string {
	if count == 1 {
		return noun
	}
	return noun + "s"
}
