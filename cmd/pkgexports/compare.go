package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/pkgexports/internal/config"
	"github.com/nao1215/pkgexports/internal/database"
	"github.com/nao1215/pkgexports/internal/model"
	"github.com/spf13/cobra"
)

// Constants for change direction.
const (
	changeBreaking  = "breaking"
	changeAdditive  = "additive"
	changeUnchanged = "unchanged"
)

// errAPIChanged is returned with --fail-on-change when the export surface
// differs between the compared snapshots.
var errAPIChanged = errors.New("export surface changed")

// NewCompareCmd creates the compare command.
// This command compares stored snapshots of a package.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [package-name]",
		Short: "Compare the export surface of stored snapshots",
		Long: `Compare displays differences between the latest and a previous snapshot of
a package. Snapshots are stored by 'pkgexports scan'.

The comparison shows:
- Export paths that were added or removed
- Named exports that were added or removed per export path
- Named exports whose type changed

A change is "breaking" when anything was removed or changed type, and
"additive" when something was only added. Snapshots with the same digest are
reported as identical without being diffed.

Examples:
  # Compare the latest two snapshots of a package
  pkgexports compare rollup

  # List the snapshots of a package
  pkgexports compare --list rollup

  # Compare with a specific snapshot by ID
  pkgexports compare --with-snapshot-id 5 rollup

  # Compare with the first snapshot taken on or after a date
  pkgexports compare --since 2025-01-01 rollup

  # Fail in CI when the surface changed
  pkgexports compare --fail-on-change rollup

  # List all packages in the database
  pkgexports compare --list-packages`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List snapshot history for the specified package")
	cmd.Flags().BoolP("list-packages", "L", false,
		"List all packages in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-snapshot-id", "i", 0,
		"Compare with a specific snapshot by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first snapshot on or after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	cmd.Flags().Bool("fail-on-change", false,
		"Exit with an error when the export surface changed")
	cmd.Flags().String("db-dir", "",
		"Snapshot database directory (default: XDG data directory)")

	return cmd
}

// compareOptions holds the parsed flags of the compare command.
type compareOptions struct {
	packageName    string
	withSnapshotID int64
	since          string
	jsonOutput     bool
	markdownOutput bool
	failOnChange   bool
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listPackages, err := cmd.Flags().GetBool("list-packages")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var packageName string
	if !listPackages {
		if len(args) == 0 {
			return errors.New("package name is required (use --list-packages to see available packages)")
		}
		packageName = args[0]
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if listPackages {
		return listSnapshotPackages(ctx, out, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listSnapshotHistory(ctx, out, db, packageName)
	}

	opts := compareOptions{packageName: packageName}
	if opts.jsonOutput, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.markdownOutput, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if opts.jsonOutput && opts.markdownOutput {
		return config.ErrConflictingReportFormats
	}
	if opts.withSnapshotID, err = cmd.Flags().GetInt64("with-snapshot-id"); err != nil {
		return err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return err
	}
	if opts.failOnChange, err = cmd.Flags().GetBool("fail-on-change"); err != nil {
		return err
	}

	return runComparison(ctx, out, db, opts)
}

// listSnapshotPackages lists all packages that have snapshots in the database.
func listSnapshotPackages(ctx context.Context, out io.Writer, db *database.SnapshotDB) error {
	packages, err := db.ListPackages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list packages: %w", err)
	}

	if len(packages) == 0 {
		fmt.Fprintln(out, "No packages found in the database.")
		fmt.Fprintln(out, "\nUse 'pkgexports scan <dir>' to store a snapshot.")
		return nil
	}

	fmt.Fprintf(out, "Packages (%d):\n\n", len(packages))
	for _, name := range packages {
		fmt.Fprintf(out, "  • %s\n", name)
	}
	fmt.Fprintln(out, "\nUse 'pkgexports compare --list <package>' to see the snapshots of a package.")

	return nil
}

// listSnapshotHistory lists all snapshots of a package.
func listSnapshotHistory(ctx context.Context, out io.Writer, db *database.SnapshotDB, packageName string) error {
	snapshots, err := db.GetHistoryWithMetadata(ctx, packageName)
	if err != nil {
		return fmt.Errorf("failed to get snapshot history: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(out, "No snapshots found for %s\n", packageName)
		fmt.Fprintln(out, "\nUse 'pkgexports scan' to store a snapshot of this package.")
		return nil
	}

	fmt.Fprintf(out, "Snapshot history for %s (%d snapshots):\n\n", packageName, len(snapshots))
	fmt.Fprintf(out, "  %-6s  %-20s  %-12s  %-8s  %-12s  %-8s  %s\n", "ID", "Date", "Version", "Mode", "Digest", "Entries", "Names")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 86))

	for _, meta := range snapshots {
		version := meta.PackageVersion
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-12s  %-8s  %-12s  %-8d  %d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			version,
			meta.ImportMode,
			shortDigest(meta.Digest),
			meta.EntryCount,
			meta.NameCount,
		)
	}

	fmt.Fprintln(out, "\nUse 'pkgexports compare <package>' to compare the latest two snapshots.")
	fmt.Fprintln(out, "Use 'pkgexports compare --with-snapshot-id <id> <package>' to compare with a specific snapshot.")

	return nil
}

// runComparison loads the snapshots to compare and writes the result.
func runComparison(ctx context.Context, out io.Writer, db *database.SnapshotDB, opts compareOptions) error {
	history, err := db.GetHistoryWithMetadata(ctx, opts.packageName)
	if err != nil {
		return fmt.Errorf("failed to get snapshot history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no snapshots found for %s", opts.packageName)
	}

	if len(history) < 2 && opts.withSnapshotID == 0 && opts.since == "" {
		return fmt.Errorf("at least 2 snapshots are required for comparison (found %d)", len(history))
	}

	// The latest snapshot is always the current one.
	currentID := history[0].ID
	var previousID int64

	switch {
	case opts.withSnapshotID > 0:
		previousID = opts.withSnapshotID
		if previousID == currentID {
			return fmt.Errorf("snapshot ID %d is the latest snapshot of %s; at least 2 snapshots are required for comparison", previousID, opts.packageName)
		}
	case opts.since != "":
		sinceDate, err := time.Parse("2006-01-02", opts.since)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		// History is newest first; walk backwards to find the oldest match.
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].Timestamp.Before(sinceDate) {
				previousID = history[i].ID
				break
			}
		}
		if previousID == 0 {
			return fmt.Errorf("no snapshots found since %s", opts.since)
		}
		if previousID == currentID {
			return fmt.Errorf("only one snapshot found since %s; at least 2 snapshots are required for comparison", opts.since)
		}
	default:
		previousID = history[1].ID
	}

	comparison, err := loadComparison(ctx, db, history, previousID, opts.packageName)
	if err != nil {
		return err
	}

	switch {
	case opts.jsonOutput:
		err = outputComparisonJSON(out, comparison)
	case opts.markdownOutput:
		err = outputComparisonMarkdown(out, comparison)
	default:
		err = outputComparisonText(out, comparison)
	}
	if err != nil {
		return err
	}

	if opts.failOnChange && comparison.Direction != changeUnchanged {
		return fmt.Errorf("%w: %s", errAPIChanged, comparison.Direction)
	}
	return nil
}

// loadComparison compares the latest snapshot in history with previousID.
// Snapshots with equal digests are reported as identical without loading
// their reports.
func loadComparison(ctx context.Context, db *database.SnapshotDB, history []database.SnapshotMetadata, previousID int64, packageName string) (*ComparisonResult, error) {
	latest := history[0]
	currentID := latest.ID

	if prev, ok := findSnapshot(history, previousID); ok && prev.Digest != "" && prev.Digest == latest.Digest {
		return identicalComparison(prev, latest), nil
	}

	current, err := db.GetReportByID(ctx, currentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %d: %w", currentID, err)
	}
	previous, err := db.GetReportByID(ctx, previousID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %d: %w", previousID, err)
	}
	if previous == nil {
		return nil, fmt.Errorf("snapshot with ID %d not found", previousID)
	}
	if previous.Package.Name != packageName {
		return nil, fmt.Errorf("snapshot ID %d belongs to %s, not %s", previousID, previous.Package.Name, packageName)
	}
	if current == nil {
		return nil, fmt.Errorf("snapshot with ID %d not found", currentID)
	}

	comparison := compareReports(previous, current)
	comparison.PreviousSnapshot.ID = previousID
	comparison.CurrentSnapshot.ID = currentID
	comparison.CurrentSnapshot.Digest = shortDigest(latest.Digest)
	if prev, ok := findSnapshot(history, previousID); ok {
		comparison.PreviousSnapshot.Digest = shortDigest(prev.Digest)
	}
	return comparison, nil
}

// findSnapshot returns the metadata of id from history.
func findSnapshot(history []database.SnapshotMetadata, id int64) (database.SnapshotMetadata, bool) {
	for _, meta := range history {
		if meta.ID == id {
			return meta, true
		}
	}
	return database.SnapshotMetadata{}, false
}

// identicalComparison builds the result for two snapshots whose reports have
// the same digest.
func identicalComparison(previous, current database.SnapshotMetadata) *ComparisonResult {
	return &ComparisonResult{
		Package:          current.PackageName,
		PreviousSnapshot: metadataSnapshot(previous),
		CurrentSnapshot:  metadataSnapshot(current),
		Identical:        true,
		UnchangedCount:   current.NameCount,
		Direction:        changeUnchanged,
	}
}

func metadataSnapshot(meta database.SnapshotMetadata) SnapshotSummary {
	return SnapshotSummary{
		ID:         meta.ID,
		Version:    meta.PackageVersion,
		ImportMode: meta.ImportMode,
		Digest:     shortDigest(meta.Digest),
		Entries:    meta.EntryCount,
		Names:      meta.NameCount,
	}
}

// shortDigest abbreviates a hex digest for display.
func shortDigest(digest string) string {
	const n = 12
	if len(digest) > n {
		return digest[:n]
	}
	return digest
}

// ComparisonResult holds the result of comparing two snapshots.
type ComparisonResult struct {
	// Package is the compared package name.
	Package string `json:"package"`

	// PreviousSnapshot describes the older snapshot.
	PreviousSnapshot SnapshotSummary `json:"previous_snapshot"`

	// CurrentSnapshot describes the newer snapshot.
	CurrentSnapshot SnapshotSummary `json:"current_snapshot"`

	// AddedExportPaths are export paths only present in the current snapshot.
	AddedExportPaths []string `json:"added_export_paths,omitempty"`

	// RemovedExportPaths are export paths only present in the previous snapshot.
	RemovedExportPaths []string `json:"removed_export_paths,omitempty"`

	// Changes lists name-level differences of export paths present in both.
	Changes []EntryChange `json:"changes,omitempty"`

	// UnchangedCount is the number of names present in both with the same type.
	UnchangedCount int `json:"unchanged_count"`

	// Identical is true when both snapshots have the same digest. The
	// reports were not diffed.
	Identical bool `json:"identical,omitempty"`

	// ImportModeChanged is true when the snapshots were taken in different
	// import modes, so differences may come from how entries were loaded
	// rather than from the package.
	ImportModeChanged bool `json:"import_mode_changed,omitempty"`

	// Direction is "breaking", "additive", or "unchanged".
	Direction string `json:"direction"`
}

// SnapshotSummary contains metadata about a snapshot for comparison display.
type SnapshotSummary struct {
	ID         int64            `json:"id,omitempty"`
	Version    string           `json:"version,omitempty"`
	ImportMode model.ImportMode `json:"import_mode"`
	Digest     string           `json:"digest,omitempty"`
	Entries    int              `json:"entries"`
	Names      int              `json:"names"`
}

// EntryChange holds the differences of one export path.
type EntryChange struct {
	ExportPath   string         `json:"export_path"`
	AddedNames   []model.Export `json:"added_names,omitempty"`
	RemovedNames []model.Export `json:"removed_names,omitempty"`
	ChangedTypes []TypeChange   `json:"changed_types,omitempty"`
}

// TypeChange is a name whose type tag differs between snapshots.
type TypeChange struct {
	Name     string `json:"name"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

func (c EntryChange) empty() bool {
	return len(c.AddedNames) == 0 && len(c.RemovedNames) == 0 && len(c.ChangedTypes) == 0
}

// compareReports compares two reports and generates a comparison result.
func compareReports(previous, current *model.Report) *ComparisonResult {
	result := &ComparisonResult{
		Package:          current.Package.Name,
		PreviousSnapshot: summarizeSnapshot(previous),
		CurrentSnapshot:  summarizeSnapshot(current),

		ImportModeChanged: previous.ImportMode != current.ImportMode,
	}

	for _, exportPath := range current.ExportPaths() {
		if _, ok := previous.Exports[exportPath]; !ok {
			result.AddedExportPaths = append(result.AddedExportPaths, exportPath)
		}
	}

	for _, exportPath := range previous.ExportPaths() {
		cur, ok := current.Exports[exportPath]
		if !ok {
			result.RemovedExportPaths = append(result.RemovedExportPaths, exportPath)
			continue
		}

		change, unchanged := compareSummaries(exportPath, previous.Exports[exportPath], cur)
		result.UnchangedCount += unchanged
		if !change.empty() {
			result.Changes = append(result.Changes, change)
		}
	}

	result.Direction = changeDirection(result)
	return result
}

// compareSummaries diffs the names of one export path. Names are reported in
// the order of the summary they come from.
func compareSummaries(exportPath string, previous, current model.ModuleSummary) (EntryChange, int) {
	change := EntryChange{ExportPath: exportPath}
	prevTypes := previous.Map()
	curTypes := current.Map()
	unchanged := 0

	for _, e := range current {
		prevType, ok := prevTypes[e.Name]
		switch {
		case !ok:
			change.AddedNames = append(change.AddedNames, e)
		case prevType != e.Type:
			change.ChangedTypes = append(change.ChangedTypes, TypeChange{Name: e.Name, Previous: prevType, Current: e.Type})
		default:
			unchanged++
		}
	}

	for _, e := range previous {
		if _, ok := curTypes[e.Name]; !ok {
			change.RemovedNames = append(change.RemovedNames, e)
		}
	}

	return change, unchanged
}

// changeDirection classifies a comparison.
func changeDirection(result *ComparisonResult) string {
	added := len(result.AddedExportPaths) > 0
	for _, c := range result.Changes {
		if len(c.RemovedNames) > 0 || len(c.ChangedTypes) > 0 {
			return changeBreaking
		}
		if len(c.AddedNames) > 0 {
			added = true
		}
	}
	if len(result.RemovedExportPaths) > 0 {
		return changeBreaking
	}
	if added {
		return changeAdditive
	}
	return changeUnchanged
}

func summarizeSnapshot(r *model.Report) SnapshotSummary {
	return SnapshotSummary{
		Version:    r.Package.Version,
		ImportMode: r.ImportMode,
		Entries:    len(r.Exports),
		Names:      r.TotalNames(),
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Export Comparison: " + result.Package)
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.PlainText("**Status:** " + formatDirection(result.Direction))
	md.PlainText("")

	prev, cur := result.PreviousSnapshot, result.CurrentSnapshot
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Snapshot", formatSnapshotID(prev.ID), formatSnapshotID(cur.ID), "-"},
			{"Version", orDash(prev.Version), orDash(cur.Version), "-"},
			{"Import Mode", string(prev.ImportMode), string(cur.ImportMode), "-"},
			{"Digest", codeOrDash(prev.Digest), codeOrDash(cur.Digest), "-"},
			{"Entries", strconv.Itoa(prev.Entries), strconv.Itoa(cur.Entries), formatDelta(cur.Entries - prev.Entries)},
			{"**Names**", "**" + strconv.Itoa(prev.Names) + "**", "**" + strconv.Itoa(cur.Names) + "**", "**" + formatDelta(cur.Names-prev.Names) + "**"},
		},
	})
	md.PlainText("")

	if result.ImportModeChanged {
		md.Warningf("The snapshots were taken in different import modes (%s, %s). Differences may come from how entries were loaded.",
			prev.ImportMode, cur.ImportMode)
		md.PlainText("")
	}

	switch {
	case result.Identical:
		md.Tip("Both snapshots have the same digest.")
	case result.Direction == changeBreaking:
		md.Cautionf("Names were removed or changed type. Consumers of %s may break.", result.Package)
	case result.Direction == changeAdditive:
		md.Note("Only additions were found.")
	default:
		md.Tip("The export surface is unchanged.")
	}
	md.PlainText("")

	if len(result.AddedExportPaths) > 0 {
		md.H2(fmt.Sprintf("Added Export Paths (%d)", len(result.AddedExportPaths)))
		md.PlainText("")
		md.BulletList(codeAll(result.AddedExportPaths)...)
		md.PlainText("")
	}

	if len(result.RemovedExportPaths) > 0 {
		md.H2(fmt.Sprintf("Removed Export Paths (%d)", len(result.RemovedExportPaths)))
		md.PlainText("")
		md.BulletList(codeAll(result.RemovedExportPaths)...)
		md.PlainText("")
	}

	if len(result.Changes) > 0 {
		md.H2("Changed Entries")
		md.PlainText("")
		for _, c := range result.Changes {
			md.PlainText("### `" + c.ExportPath + "`")
			md.PlainText("")
			md.Table(markdown.TableSet{
				Header: []string{"Change", "Name", "Type"},
				Rows:   changeRows(c),
			})
			md.PlainText("")
		}
	}

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d names unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// changeRows renders one entry change as table rows.
func changeRows(c EntryChange) [][]string {
	rows := make([][]string, 0, len(c.AddedNames)+len(c.RemovedNames)+len(c.ChangedTypes))
	for _, e := range c.AddedNames {
		rows = append(rows, []string{"added", "`" + e.Name + "`", e.Type})
	}
	for _, e := range c.RemovedNames {
		rows = append(rows, []string{"removed", "~~`" + e.Name + "`~~", e.Type})
	}
	for _, tc := range c.ChangedTypes {
		rows = append(rows, []string{"type changed", "`" + tc.Name + "`", tc.Previous + " → " + tc.Current})
	}
	return rows
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Export Comparison: %s\n", result.Package)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "\nStatus: %s\n", formatDirection(result.Direction))

	prev, cur := result.PreviousSnapshot, result.CurrentSnapshot
	fmt.Fprintf(&sb, "\nPrevious snapshot: %s (%s, %s, %s)\n", formatSnapshotID(prev.ID), orDash(prev.Version), prev.ImportMode, orDash(prev.Digest))
	fmt.Fprintf(&sb, "Current snapshot:  %s (%s, %s, %s)\n", formatSnapshotID(cur.ID), orDash(cur.Version), cur.ImportMode, orDash(cur.Digest))

	if result.Identical {
		sb.WriteString("\nSnapshots are identical (same digest).\n")
	}
	if result.ImportModeChanged {
		fmt.Fprintf(&sb, "\nNote: import mode changed from %s to %s; differences may come from how entries were loaded.\n",
			prev.ImportMode, cur.ImportMode)
	}

	sb.WriteString("\nSummary:\n")
	fmt.Fprintf(&sb, "  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Entries", prev.Entries, cur.Entries, formatDelta(cur.Entries-prev.Entries))
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Names", prev.Names, cur.Names, formatDelta(cur.Names-prev.Names))

	if len(result.AddedExportPaths) > 0 {
		fmt.Fprintf(&sb, "\nAdded Export Paths (%d):\n", len(result.AddedExportPaths))
		for _, p := range result.AddedExportPaths {
			fmt.Fprintf(&sb, "  [+] %s\n", p)
		}
	}

	if len(result.RemovedExportPaths) > 0 {
		fmt.Fprintf(&sb, "\nRemoved Export Paths (%d):\n", len(result.RemovedExportPaths))
		for _, p := range result.RemovedExportPaths {
			fmt.Fprintf(&sb, "  [-] %s\n", p)
		}
	}

	for _, c := range result.Changes {
		fmt.Fprintf(&sb, "\n%s:\n", c.ExportPath)
		for _, e := range c.AddedNames {
			fmt.Fprintf(&sb, "  [+] %s: %s\n", e.Name, e.Type)
		}
		for _, e := range c.RemovedNames {
			fmt.Fprintf(&sb, "  [-] %s: %s\n", e.Name, e.Type)
		}
		for _, tc := range c.ChangedTypes {
			fmt.Fprintf(&sb, "  [~] %s: %s -> %s\n", tc.Name, tc.Previous, tc.Current)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(&sb, "\nUnchanged: %d names\n", result.UnchangedCount)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// formatDirection formats the change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case changeBreaking:
		return "BREAKING (names removed or retyped)"
	case changeAdditive:
		return "ADDITIVE (names added)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

func formatSnapshotID(id int64) string {
	if id == 0 {
		return "-"
	}
	return "#" + strconv.FormatInt(id, 10)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func codeOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + s + "`"
}

func codeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "`" + s + "`"
	}
	return out
}
