// Package database provides SQLite-based snapshot history for pkgexports.
//
// Every scan can store its report in the SnapshotDB. The compare command
// reads two snapshots of the same package back and diffs them, which is how
// accidental API surface changes between releases are detected.
//
// SQLite is used through modernc.org/sqlite: the database is a single file
// under the XDG data directory and the driver needs no cgo.
package database
