package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/nao1215/pkgexports/internal/model"
)

// JSONWriter outputs reports in JSON format.
// The output is the report's own shape:
// {"package": {...}, "importMode": "...", "exports": {...}}.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(report)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// Summary holds counts derived from a report.
type Summary struct {
	// Entries is the number of export paths.
	Entries int `json:"entries"`

	// Names is the number of named exports across all entries.
	Names int `json:"names"`

	// Types counts named exports per type tag.
	Types []TypeCount `json:"types"`
}

// TypeCount is the number of named exports with one type tag.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// NewSummary computes the summary of report. Types are ordered by count,
// most frequent first, then by name.
func NewSummary(report *model.Report) Summary {
	counts := report.TypeCounts()
	types := make([]TypeCount, 0, len(counts))
	for typ, n := range counts {
		types = append(types, TypeCount{Type: typ, Count: n})
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Count != types[j].Count {
			return types[i].Count > types[j].Count
		}
		return types[i].Type < types[j].Type
	})

	return Summary{
		Entries: len(report.Exports),
		Names:   report.TotalNames(),
		Types:   types,
	}
}

// JSONReport wraps a report with the tool version and summary counts.
type JSONReport struct {
	// Version is the pkgexports version that generated this report.
	Version string `json:"version"`

	// Report is the export report.
	Report *model.Report `json:"report"`

	// Summary holds derived counts.
	Summary Summary `json:"summary"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.Report, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  report,
		Summary: NewSummary(report),
	}
}

// FullJSONWriter outputs reports with the metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}
