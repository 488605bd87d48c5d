// Package loader loads one export entry of a package and summarizes the
// values it exports.
//
// Loading is split into two pluggable parts:
//   - A Resolver turns an entry into something the JavaScript runtime can
//     import. There is one Resolver per import mode: PackageResolver
//     ("vite/module-runner"), DistResolver ("file:///.../dist/x.mjs") and
//     SourceResolver (the dist path rewritten to src).
//   - A Runner performs the import and reports each exported name together
//     with a small runtime descriptor. NodeRunner does this by starting a
//     node process per entry.
//
// Loader ties them together, classifies each value with a ValueClassifier
// and sorts the names with locale-aware collation, so the same module always
// produces the same summary.
package loader
