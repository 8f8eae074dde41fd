package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/skillhound/skillhound/internal/model"
)

// TextWriter outputs human-readable rankings for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type TextWriter struct {
	baseWriter

	// verbose includes per-skill hit counts for each posting.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables per-posting detail in the output.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the ranking as plain text.
func (w *TextWriter) Write(report *model.RankReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Job ranking (%s)\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "%d skills tracked, %d postings ranked\n\n", len(report.Skills), len(report.Jobs))

	sb.WriteString("TOP JOBS\n")
	if len(report.Jobs) == 0 {
		sb.WriteString("  (no postings scored yet)\n")
	}
	for rank, job := range report.Jobs {
		p, ok := report.Postings[job.PostingID]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %2d. [%+d] %s", rank+1, job.Score, orDash(p.Fields["title"]))
		if company := p.Fields["company"]; company != "" {
			fmt.Fprintf(&sb, " at %s", company)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "      %s\n", p.Link)
		if w.verbose {
			if loc := p.Fields["location"]; loc != "" {
				fmt.Fprintf(&sb, "      location: %s\n", loc)
			}
			if salary := p.Fields["salary"]; salary != "" {
				fmt.Fprintf(&sb, "      salary: %s\n", salary)
			}
		}
	}

	writeSkillSection(&sb, "SKILLS WORTH HAVING", report.WantedSkills)
	writeSkillSection(&sb, "SKILLS WORTH AVOIDING", report.UnwantedSkills)

	return io.WriteString(w.output, sb.String())
}

func writeSkillSection(sb *strings.Builder, title string, skills []model.SkillScore) {
	fmt.Fprintf(sb, "\n%s\n", title)
	if len(skills) == 0 {
		sb.WriteString("  (none tracked)\n")
		return
	}
	for _, s := range skills {
		fmt.Fprintf(sb, "  %4d  %s\n", s.Score, s.Name)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
