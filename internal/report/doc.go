// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: aligned text tables for terminal display
//   - JSONWriter: the report's JSON shape for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a type distribution chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
