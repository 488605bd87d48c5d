// Package model defines the data structures shared across pkgexports.
//
// This package contains the following main types:
//   - ExportEntry: one normalized (export path, target path) pair
//   - ModuleSummary: the named exports of one loaded entry, sorted by name
//   - Report: the complete export surface of a package
//   - ImportMode and Sequence: how entries are addressed and scheduled
//
// The models live in their own package because manifest, loader, pipeline,
// report and database all exchange them, and keeping them here prevents
// import cycles. Every type serializes to the same JSON shape that the
// snapshot database stores.
package model
