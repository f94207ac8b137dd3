package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/typescore/internal/model"
)

// MarkdownWriter writes a human-oriented summary report in GitHub
// Flavored Markdown, using the nao1215/markdown builder for tables.
// It complements the CSV report rather than replacing it.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the summary followed by the full score table.
func (w *MarkdownWriter) Write(rows []model.ReportRow) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := model.NewRunSummary(rows)

	md.H1("Typing completeness report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Packages", strconv.Itoa(summary.Packages)},
			{"Modules scored", strconv.Itoa(summary.Modules)},
			{"Failures", strconv.Itoa(summary.Failures)},
			{"Average score", strconv.FormatFloat(summary.AverageScore, 'f', 2, 64)},
		},
	})
	md.PlainText("")

	md.H2("Scores")
	md.Table(markdown.TableSet{
		Header: []string{"Package", "Module", "Score"},
		Rows:   w.scoreRows(rows),
	})

	if failed := w.failureRows(rows); len(failed) > 0 {
		md.PlainText("")
		md.H2("Not scored")
		md.Table(markdown.TableSet{
			Header: []string{"Package", "Module"},
			Rows:   failed,
		})
	}

	return len(md.String()), md.Build()
}

// scoreRows converts report rows into table cells. Unresolvable packages
// show a dash in the module column.
func (w *MarkdownWriter) scoreRows(rows []model.ReportRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		module := row.ModuleName
		if module == "" {
			module = "-"
		}
		out = append(out, []string{row.PackageName, module, row.ScoreString()})
	}
	return out
}

// failureRows lists the rows that could not be scored.
func (w *MarkdownWriter) failureRows(rows []model.ReportRow) [][]string {
	var out [][]string
	for _, row := range rows {
		if row.Succeeded {
			continue
		}
		module := row.ModuleName
		if module == "" {
			module = "-"
		}
		out = append(out, []string{row.PackageName, module})
	}
	return out
}
