// Package manifest locates and reads package.json files and normalizes their
// export maps into concrete entries.
//
// The package covers the first two stages of an inspection:
//   - Find walks upward from a directory to the nearest package.json.
//   - Load parses it and rejects private or anonymous packages.
//   - Normalize turns the declared "exports" field into an ordered list of
//     model.ExportEntry values, dropping wildcard patterns, the package.json
//     self reference and anything the caller chooses to ignore.
//
// Conditional exports are resolved by trying an ordered list of condition
// names (see DefaultConditions). The order is data, so callers can change it
// without touching the resolution logic.
package manifest
