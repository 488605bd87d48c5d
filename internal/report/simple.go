package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/pkgexports/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Each export path gets its own section with the names and type tags in
// two aligned columns, in the order the loader sorted them.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether export paths without names are shown.
	showEmpty bool

	// verbose enables the type distribution section.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)

	if w.verbose {
		w.writeTypes(&sb, report)
	}

	w.writeExports(&sb, report)

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with package information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      PACKAGE EXPORTS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Package:      %s\n", packageLabel(report.Package)))
	sb.WriteString(fmt.Sprintf("Import Mode:  %s\n", report.ImportMode))
	sb.WriteString(fmt.Sprintf("Entries:      %d\n", len(report.Exports)))
	sb.WriteString(fmt.Sprintf("Names:        %d\n", report.TotalNames()))
	sb.WriteString("\n")
}

// writeTypes writes how many names carry each type tag.
func (w *SimpleWriter) writeTypes(sb *strings.Builder, report *model.Report) {
	summary := NewSummary(report)
	if len(summary.Types) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "TYPE DISTRIBUTION")

	if len(summary.Types) == 0 {
		sb.WriteString("  No named exports\n\n")
		return
	}

	width := 0
	for _, tc := range summary.Types {
		width = max(width, len(tc.Type))
	}
	for _, tc := range summary.Types {
		sb.WriteString(fmt.Sprintf("  %-*s  %d\n", width, tc.Type, tc.Count))
	}
	sb.WriteString("\n")
}

// writeExports writes one block per export path.
func (w *SimpleWriter) writeExports(sb *strings.Builder, report *model.Report) {
	writeSection(sb, "EXPORTS")

	if len(report.Exports) == 0 {
		sb.WriteString("  No export entries\n\n")
		return
	}

	for _, exportPath := range report.ExportPaths() {
		summary := report.Exports[exportPath]
		if len(summary) == 0 && !w.showEmpty {
			continue
		}

		sb.WriteString(fmt.Sprintf("[%s] (%d)\n", exportPath, len(summary)))
		if len(summary) == 0 {
			sb.WriteString("  No named exports\n\n")
			continue
		}

		width := 0
		for _, e := range summary {
			width = max(width, len(e.Name))
		}
		for _, e := range summary {
			sb.WriteString(fmt.Sprintf("  %-*s  %s\n", width, e.Name, e.Type))
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by pkgexports\n")
	sb.WriteString("https://github.com/nao1215/pkgexports\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
