package model

import "sort"

// ExportEntry is a normalized pair from a package's export map.
type ExportEntry struct {
	// ExportPath is the public subpath key as declared, e.g. "." or "./utils".
	ExportPath string `json:"exportPath"`

	// TargetPath is the file that satisfies the entry after condition
	// resolution, relative to the manifest directory, e.g. "./dist/utils.mjs".
	TargetPath string `json:"targetPath"`
}

// PackageInfo identifies the inspected package.
type PackageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Report is the export surface of one package.
//
// Exports is keyed by export path. Its keys are exactly the entries the
// normalizer produced; an export path never appears twice.
type Report struct {
	Package    PackageInfo              `json:"package"`
	ImportMode ImportMode               `json:"importMode"`
	Exports    map[string]ModuleSummary `json:"exports"`
}

// NewReport creates an empty report for the given package.
func NewReport(pkg PackageInfo, mode ImportMode) *Report {
	return &Report{
		Package:    pkg,
		ImportMode: mode,
		Exports:    make(map[string]ModuleSummary),
	}
}

// ExportPaths returns the report's export paths in ascending order.
func (r *Report) ExportPaths() []string {
	paths := make([]string, 0, len(r.Exports))
	for p := range r.Exports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TotalNames returns the number of named exports across all entries.
func (r *Report) TotalNames() int {
	total := 0
	for _, s := range r.Exports {
		total += len(s)
	}
	return total
}

// TypeCounts counts named exports per type tag across all entries.
func (r *Report) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, s := range r.Exports {
		for _, e := range s {
			counts[e.Type]++
		}
	}
	return counts
}
