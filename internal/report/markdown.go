package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/pkgexports/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is meant for pull request comments and release notes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeExports(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with package information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Exports of " + report.Package.Name)
	md.PlainText("")

	version := report.Package.Version
	if version == "" {
		version = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Package", "`" + report.Package.Name + "`"},
			{"Version", version},
			{"Import Mode", string(report.ImportMode)},
			{"Entries", strconv.Itoa(len(report.Exports))},
			{"Names", strconv.Itoa(report.TotalNames())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the type distribution section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	summary := NewSummary(report)

	md.H2("Type Distribution")
	md.PlainText("")

	if len(summary.Types) == 0 {
		md.PlainText("No named exports.")
		md.PlainText("")
	} else {
		rows := make([][]string, 0, len(summary.Types)+1)
		for _, tc := range summary.Types {
			rows = append(rows, []string{"`" + tc.Type + "`", strconv.Itoa(tc.Count)})
		}
		rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Names) + "**"})

		md.Table(markdown.TableSet{
			Header: []string{"Type", "Count"},
			Rows:   rows,
		})
		md.PlainText("")

		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for the type distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Export Type Distribution"),
		piechart.WithShowData(true),
	)

	for _, tc := range summary.Types {
		chart.LabelAndIntValue(tc.Type, uint64(tc.Count)) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert describing the size of the surface.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary Summary) {
	switch {
	case summary.Entries == 0:
		md.Warningf("No export entries were found. Check the \"exports\" field of package.json.")
	case summary.Names == 0:
		md.Note("Export entries were loaded but none of them provides a named export.")
	default:
		md.Tip("Store this report and compare it with the next release to catch accidental API changes.")
	}
	md.PlainText("")
}

// writeExports writes a Name/Type table per export path.
func (w *MarkdownWriter) writeExports(md *markdown.Markdown, report *model.Report) {
	md.H2("Exports")
	md.PlainText("")

	if len(report.Exports) == 0 {
		md.PlainText("No export entries.")
		md.PlainText("")
		return
	}

	for _, exportPath := range report.ExportPaths() {
		summary := report.Exports[exportPath]

		md.PlainText("### `" + exportPath + "`")
		md.PlainText("")

		if len(summary) == 0 {
			md.PlainText("No named exports.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, len(summary))
		for i, e := range summary {
			rows[i] = []string{"`" + truncateString(e.Name, 60) + "`", e.Type}
		}

		md.Table(markdown.TableSet{
			Header: []string{"Name", "Type"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pkgexports](https://github.com/nao1215/pkgexports)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
