package manifest

import (
	"strings"

	"github.com/nao1215/pkgexports/internal/model"
)

// DefaultEntry is the target used for packages without an "exports" field.
const DefaultEntry = "./dist/index.mjs"

// ValueResolver picks one path from a raw export value. It returns false when
// the value yields nothing, which drops the entry.
type ValueResolver func(value ExportValue) (string, bool)

// EntryFilter reports whether an entry should be excluded, given its export
// path and raw value.
type EntryFilter func(exportPath string, value ExportValue) bool

// EntryTransform rewrites the normalized entry list. It may filter, reorder
// or rename entries.
type EntryTransform func(entries []model.ExportEntry) []model.ExportEntry

// NormalizeOptions holds the hooks used by Normalize. Every field is optional.
type NormalizeOptions struct {
	// ResolveExportsValue picks one path per entry.
	// Default: NewConditionResolver() over DefaultConditions.
	ResolveExportsValue ValueResolver

	// ShouldIgnoreEntry excludes entries before resolution.
	// Default: nothing is ignored.
	ShouldIgnoreEntry EntryFilter

	// ResolveExportEntries is applied to the final list.
	// Default: the list is returned unchanged.
	ResolveExportEntries EntryTransform
}

// Normalize converts the manifest's export map into an ordered list of
// entries. Declaration order is kept.
//
// A manifest without "exports" yields a single "." entry pointing at
// DefaultEntry. Entries are skipped when the value is empty, when the export
// path contains a "*" pattern, when it is the package.json self reference,
// when ShouldIgnoreEntry returns true, or when the value resolves to nothing.
func Normalize(m *Manifest, opts NormalizeOptions) []model.ExportEntry {
	resolve := opts.ResolveExportsValue
	if resolve == nil {
		resolve = NewConditionResolver()
	}

	exports := m.Exports
	if exports == nil {
		exports = &ExportMap{Entries: []ExportMapEntry{{Key: ".", Value: StringValue(DefaultEntry)}}}
	}

	entries := make([]model.ExportEntry, 0, exports.Len())
	for _, e := range exports.Entries {
		if e.Value.IsEmpty() {
			continue
		}
		if strings.Contains(e.Key, "*") {
			continue
		}
		if isSelfReference(e.Key) {
			continue
		}
		if opts.ShouldIgnoreEntry != nil && opts.ShouldIgnoreEntry(e.Key, e.Value) {
			continue
		}

		target, ok := resolve(e.Value)
		if !ok || target == "" {
			continue
		}
		entries = append(entries, model.ExportEntry{ExportPath: e.Key, TargetPath: target})
	}

	if opts.ResolveExportEntries != nil {
		entries = opts.ResolveExportEntries(entries)
	}
	return entries
}

// isSelfReference reports whether key exposes package.json itself.
func isSelfReference(key string) bool {
	return key == FileName || key == "./"+FileName
}
