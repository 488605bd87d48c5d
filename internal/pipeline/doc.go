// Package pipeline turns a package directory into an export report.
//
// Inspection runs as a sequence of steps sharing one Run: the manifest is
// located, parsed, normalized into export entries, and every entry is loaded.
// The Assembler decides whether entries load concurrently or one by one, and
// the BatchProcessor inspects several package directories at once with
// errgroup-bounded concurrency.
//
// A failure in any step aborts the run; no partial report is produced.
package pipeline
