package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/pkgexports/internal/config"
	"github.com/nao1215/pkgexports/internal/database"
	pkglog "github.com/nao1215/pkgexports/internal/log"
	"github.com/nao1215/pkgexports/internal/loader"
	"github.com/nao1215/pkgexports/internal/manifest"
	"github.com/nao1215/pkgexports/internal/model"
	"github.com/nao1215/pkgexports/internal/pipeline"
	"github.com/nao1215/pkgexports/internal/report"
	"github.com/spf13/cobra"
)

// errPackagesFailed is returned when at least one package could not be
// inspected. The individual errors are printed as they happen.
var errPackagesFailed = errors.New("inspection failed")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir...]",
		Short: "Report the exports of one or more packages",
		Long: `Scan locates package.json starting from each directory (default: the current
directory, walking up to the filesystem root), imports every entry of its
"exports" field with node, and reports the named exports of each entry with
their types.

Entries with "*" patterns and the package.json self reference are skipped.
Packages without "exports" are inspected through ./dist/index.mjs.

Examples:
  # Inspect the package in the current directory
  pkgexports scan

  # Inspect several packages, two at a time
  pkgexports scan -b 2 packages/core packages/cli

  # Import through the package name instead of the built files
  pkgexports scan --import-mode package

  # Prefer the "import" condition over "default"
  pkgexports scan --condition import --condition default

  # Write a JSON report to a file
  pkgexports scan --json -o reports/exports.json

Configuration file (.pkgexports) example:
  defaults:
    importMode: dist
  packages:
    rollup:
      ignore:
        - ./dist/*`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Inspection flags
	cmd.Flags().StringP("import-mode", "i", string(model.DefaultImportMode),
		"How entries are imported: package, dist or src")
	cmd.Flags().StringP("sequence", "s", string(model.DefaultSequence),
		"Load entries in parallel or sequential order")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Maximum entries loaded at once in parallel mode (0 = unlimited)")
	cmd.Flags().StringArray("condition", nil,
		"Export condition to try, in priority order (repeatable)")
	cmd.Flags().StringArray("ignore", nil,
		"Export path glob to skip, e.g. './internal/*' (repeatable)")
	cmd.Flags().String("classifier", config.DefaultClassifier,
		"Type tags to report: typeof or detailed")

	// Node flags
	cmd.Flags().String("node", loader.DefaultNodePath,
		"Path to the node executable")
	cmd.Flags().StringArray("node-arg", nil,
		"Extra argument passed to node (repeatable)")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of packages inspected concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pkgexports in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write reports to specified file path (creates directories if needed)")

	// Snapshot flags
	cmd.Flags().Bool("no-save", false,
		"Do not store the reports in the snapshot database")
	cmd.Flags().String("db-dir", "",
		"Snapshot database directory (default: XDG data directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	s := newScanner(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return s.run(ctx)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		logJSON, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return logJSON
}

// setupLogger creates a structured logger that redacts credentials.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if getLogJSONFlag(cmd) {
		return pkglog.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return pkglog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// lockedFlags maps flags to the configuration fields they pin. A flag set on
// the command line is never overridden by the configuration file.
var lockedFlags = map[string]string{
	"import-mode": config.FieldImportMode,
	"sequence":    config.FieldSequence,
	"condition":   config.FieldConditions,
	"ignore":      config.FieldIgnore,
	"node-arg":    config.FieldNodeArgs,
	"classifier":  config.FieldClassifier,
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	importMode, err := flags.GetString("import-mode")
	if err != nil {
		return nil, err
	}
	cfg.ImportMode, err = model.ParseImportMode(importMode)
	if err != nil {
		return nil, err
	}

	sequence, err := flags.GetString("sequence")
	if err != nil {
		return nil, err
	}
	cfg.Sequence, err = model.ParseSequence(sequence)
	if err != nil {
		return nil, err
	}

	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.Conditions, err = flags.GetStringArray("condition"); err != nil {
		return nil, err
	}
	if cfg.IgnorePatterns, err = flags.GetStringArray("ignore"); err != nil {
		return nil, err
	}
	if cfg.Classifier, err = flags.GetString("classifier"); err != nil {
		return nil, err
	}
	if cfg.NodePath, err = flags.GetString("node"); err != nil {
		return nil, err
	}
	if cfg.NodeArgs, err = flags.GetStringArray("node-arg"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	for flag, field := range lockedFlags {
		if flags.Changed(flag) {
			cfg.Locked[field] = true
		}
	}

	// An explicitly named config file must exist; otherwise a missing file
	// means built-in defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.PackageConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.PackageConfigs = &config.File{
			Packages: make(map[string]config.PackageConfig),
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Dirs = args
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}

	return cfg, nil
}

// scanner inspects the configured directories and emits their reports.
type scanner struct {
	cfg    *config.Config
	logger *slog.Logger

	// stdout receives reports unless a report file is configured.
	stdout io.Writer

	// status receives progress lines and per-package errors.
	status io.Writer

	// newRunner builds the module runner for one package configuration.
	newRunner func(cfg *config.Config) loader.Runner

	// mu serializes report output and snapshot writes.
	mu sync.Mutex
}

func newScanner(cfg *config.Config, logger *slog.Logger, stdout, status io.Writer) *scanner {
	return &scanner{
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		status: status,
		newRunner: func(c *config.Config) loader.Runner {
			return loader.NewNodeRunner(
				loader.WithNodePath(c.NodePath),
				loader.WithNodeArgs(c.NodeArgs...),
				loader.WithRunnerLogger(logger),
			)
		},
	}
}

// run inspects every directory and returns errPackagesFailed if any of them
// failed.
func (s *scanner) run(ctx context.Context) error {
	s.logger.Debug("starting scan",
		"dirs", s.cfg.Dirs,
		"importMode", s.cfg.ImportMode,
		"sequence", s.cfg.Sequence,
		"batchSize", s.cfg.BatchSize,
		"saveToDB", s.cfg.SaveToDB,
	)

	var db *database.SnapshotDB
	if s.cfg.SaveToDB {
		var err error
		db, err = database.Open(s.cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		s.logger.Debug("database opened", "path", db.Path())
	}

	output, closeOutput, err := s.openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	bp := pipeline.NewBatchProcessor(
		s.optionsFor,
		pipeline.WithConcurrency(s.cfg.BatchSize),
		pipeline.WithBatchLogger(s.logger),
	)

	total := len(s.cfg.Dirs)
	startTime := time.Now()
	var failed int

	err = bp.ProcessBatchWithCallback(ctx, s.cfg.Dirs, func(r pipeline.Result, index int) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if r.Err != nil {
			failed++
			fmt.Fprintf(s.status, "[%d/%d] %s: %v\n", index+1, total, r.Dir, r.Err)
			return
		}

		fmt.Fprintf(s.status, "[%d/%d] %s: %d entries, %d names\n",
			index+1, total, packageLabel(r.Report), len(r.Report.Exports), r.Report.TotalNames())

		if err := outputReport(s.cfg, output, r.Report); err != nil {
			s.logger.Error("report failed", "package", r.Report.Package.Name, "error", err)
		}
		if err := saveReport(ctx, db, r.Report, s.logger); err != nil {
			s.logger.Error("failed to save snapshot", "package", r.Report.Package.Name, "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.logger.Debug("scan complete",
		"packages", total,
		"failed", failed,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d packages", errPackagesFailed, failed, total)
	}
	return nil
}

// optionsFor builds the inspection options for one directory, applying the
// configuration file entry of the package found there.
func (s *scanner) optionsFor(dir string) (pipeline.Options, error) {
	pkgCfg, err := s.cfg.ForPackage(packageNameAt(dir))
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Cwd:               dir,
		ImportMode:        pkgCfg.ImportMode,
		Sequence:          pkgCfg.Sequence,
		Concurrency:       pkgCfg.Concurrency,
		Conditions:        pkgCfg.EffectiveConditions(),
		ShouldIgnoreEntry: pipeline.IgnoreExportPaths(pkgCfg.IgnorePatterns...),
		ResolveValueType:  pkgCfg.ClassifierFunc(),
		Runner:            s.newRunner(pkgCfg),
		Logger:            s.logger,
	}, nil
}

// packageNameAt returns the package name declared by the manifest governing
// dir, or "" when it cannot be read. Read failures are reported by the
// inspection itself.
func packageNameAt(dir string) string {
	path, err := manifest.Find(dir)
	if err != nil {
		return ""
	}
	m, err := manifest.Load(path)
	if err != nil {
		return ""
	}
	return m.Name
}

// openOutput returns the destination for reports. Without a report file it
// is stdout; otherwise the file is created once and shared by all packages.
func (s *scanner) openOutput() (io.Writer, func(), error) {
	if s.cfg.ReportFile == "" {
		return s.stdout, func() {}, nil
	}

	dir := filepath.Dir(s.cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// outputReport writes the report in the requested format.
func outputReport(cfg *config.Config, output io.Writer, r *model.Report) error {
	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(r)
	return err
}

// saveReport stores the report in the snapshot database.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.SnapshotDB, r *model.Report, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveReport(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	logger.Debug("snapshot saved", "package", r.Package.Name, "id", id)
	return nil
}

// packageLabel returns "name@version", or the name alone when the version is
// unknown.
func packageLabel(r *model.Report) string {
	if r.Package.Version == "" {
		return r.Package.Name
	}
	return r.Package.Name + "@" + r.Package.Version
}
