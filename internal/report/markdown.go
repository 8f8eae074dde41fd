package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/skillhound/skillhound/internal/model"
)

// MarkdownWriter outputs rankings as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the full ranking in Markdown format.
func (w *MarkdownWriter) Write(report *model.RankReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeJobs(md, report)
	w.writeSkills(md, "Skills Worth Having", report.WantedSkills)
	w.writeSkills(md, "Skills Worth Avoiding", report.UnwantedSkills)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RankReport) {
	md.H1("Job Ranking Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Skills tracked", strconv.Itoa(len(report.Skills))},
			{"Postings ranked", strconv.Itoa(len(report.Jobs))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeJobs(md *markdown.Markdown, report *model.RankReport) {
	md.H2("Top Jobs")
	md.PlainText("")

	if len(report.Jobs) == 0 {
		md.PlainText("No postings scored yet.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Postings))
	for rank, job := range report.Jobs {
		p, ok := report.Postings[job.PostingID]
		if !ok {
			// Outside the display window or never scraped.
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(rank + 1),
			strconv.Itoa(job.Score),
			p.Fields["title"],
			p.Fields["company"],
			p.Fields["location"],
			p.Link,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Score", "Title", "Company", "Location", "Link"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkills(md *markdown.Markdown, title string, skills []model.SkillScore) {
	md.H2(title)
	md.PlainText("")

	if len(skills) == 0 {
		md.PlainText("None tracked.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Score)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Skill", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}
