package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/pkgexports/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "pkgexports.db"

// ErrDatabaseNotFound is returned by Open when the database file does not
// exist and CreateIfNotExists is false.
var ErrDatabaseNotFound = errors.New("snapshot database not found")

// SnapshotDB stores export reports so that successive scans of a package
// can be compared.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SnapshotDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// Otherwise a missing database yields ErrDatabaseNotFound.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the database file path.
func (sdb *SnapshotDB) Path() string {
	return sdb.dbPath
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SnapshotDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_name TEXT NOT NULL,
		package_version TEXT NOT NULL DEFAULT '',
		import_mode TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		digest TEXT NOT NULL,
		entry_count INTEGER NOT NULL DEFAULT 0,
		name_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_package ON snapshots(package_name);
	CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex BLAKE2b-256 digest of the report's JSON form.
// Two reports with the same export surface have the same digest.
func Digest(report *model.Report) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SaveReport stores a report and returns the new snapshot ID.
func (sdb *SnapshotDB) SaveReport(ctx context.Context, report *model.Report) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	sum := blake2b.Sum256(reportJSON)

	query := `
	INSERT INTO snapshots (package_name, package_version, import_mode, report_json, digest, entry_count, name_count)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sdb.db.ExecContext(ctx, query,
		report.Package.Name,
		report.Package.Version,
		string(report.ImportMode),
		string(reportJSON),
		hex.EncodeToString(sum[:]),
		len(report.Exports),
		report.TotalNames(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestReport retrieves the most recent report for a package.
// It returns nil when the package has no snapshot.
func (sdb *SnapshotDB) GetLatestReport(ctx context.Context, packageName string) (*model.Report, error) {
	query := `
	SELECT report_json FROM snapshots
	WHERE package_name = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	return sdb.queryReport(ctx, query, packageName)
}

// GetReportByID retrieves a report by its snapshot ID.
// It returns nil when no snapshot has that ID.
func (sdb *SnapshotDB) GetReportByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `
	SELECT report_json FROM snapshots
	WHERE id = ?
	`

	return sdb.queryReport(ctx, query, id)
}

func (sdb *SnapshotDB) queryReport(ctx context.Context, query string, arg any) (*model.Report, error) {
	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, arg).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return &report, nil
}

// ListPackages returns the names of all packages with at least one snapshot.
func (sdb *SnapshotDB) ListPackages(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT package_name FROM snapshots
	ORDER BY package_name
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var packages []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan package name: %w", err)
		}
		packages = append(packages, name)
	}

	return packages, rows.Err()
}

// GetHistory retrieves all reports for a package, newest first.
// Rows whose JSON no longer parses are skipped.
func (sdb *SnapshotDB) GetHistory(ctx context.Context, packageName string) ([]*model.Report, error) {
	query := `
	SELECT report_json FROM snapshots
	WHERE package_name = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, packageName)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		var report model.Report
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// SnapshotMetadata describes a stored snapshot without its report body.
type SnapshotMetadata struct {
	// ID is the unique identifier of the snapshot.
	ID int64

	// PackageName is the inspected package.
	PackageName string

	// PackageVersion is the package version at scan time, possibly empty.
	PackageVersion string

	// ImportMode is the mode the entries were loaded with.
	ImportMode model.ImportMode

	// Timestamp is when the snapshot was stored.
	Timestamp time.Time

	// Digest is the BLAKE2b-256 digest of the report JSON.
	Digest string

	// EntryCount is the number of export paths.
	EntryCount int

	// NameCount is the number of named exports across all entries.
	NameCount int
}

// GetHistoryWithMetadata retrieves snapshot metadata for a package, newest
// first. This is cheaper than GetHistory when only metadata is needed.
func (sdb *SnapshotDB) GetHistoryWithMetadata(ctx context.Context, packageName string) ([]SnapshotMetadata, error) {
	query := `
	SELECT id, package_name, package_version, import_mode, timestamp, digest, entry_count, name_count
	FROM snapshots
	WHERE package_name = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, packageName)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	defer rows.Close()

	var results []SnapshotMetadata
	for rows.Next() {
		var meta SnapshotMetadata
		var mode string
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&meta.PackageName,
			&meta.PackageVersion,
			&mode,
			&timestamp,
			&meta.Digest,
			&meta.EntryCount,
			&meta.NameCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.ImportMode = model.ImportMode(mode)
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// It returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
