// Package main provides the entry point for the pkgexports CLI.
//
// pkgexports loads every entry point a JavaScript package declares in its
// package.json "exports" field and reports the named exports of each one
// with a coarse type tag. Stored snapshots can be compared to catch
// accidental public API changes between releases.
//
// Usage:
//
//	pkgexports scan [dir...]
//	pkgexports compare <package-name>
//
// See --help for all available options.
package main

// main is the entry point for pkgexports.
func main() {
	Execute()
}
