package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/pkgexports/internal/config"
	"github.com/nao1215/pkgexports/internal/database"
	"github.com/nao1215/pkgexports/internal/loader"
	"github.com/nao1215/pkgexports/internal/model"
)

// fakeRunner is a loader.Runner that answers from a table keyed by the
// specifier's suffix.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	listings map[string][]loader.Value
}

// Import implements loader.Runner.
func (f *fakeRunner) Import(_ context.Context, _, specifier string) ([]loader.Value, error) {
	f.mu.Lock()
	f.calls = append(f.calls, specifier)
	f.mu.Unlock()

	for suffix, values := range f.listings {
		if strings.HasSuffix(specifier, suffix) {
			return values, nil
		}
	}
	return nil, errors.New("cannot find module " + specifier)
}

// writePackage writes package.json with the given content into a new
// temporary directory and returns the directory.
func writePackage(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return dir
}

// fixtureListings answers the entries of fixtureManifest.
var fixtureListings = map[string][]loader.Value{
	"dist/index.mjs": {
		{Name: "defineConfig", Type: "function"},
		{Name: "VERSION", Type: "string"},
		{Name: "defaults", Type: "object", Null: true},
	},
	"dist/utils.mjs": {
		{Name: "isObject", Type: "function"},
	},
}

const fixtureManifest = `{
  "name": "fixture-lib",
  "version": "1.2.3",
  "exports": {
    ".": "./dist/index.mjs",
    "./utils": {"import": "./dist/utils.mjs", "require": "./dist/utils.cjs"},
    "./internal/*": "./dist/internal/*.mjs",
    "./package.json": "./package.json"
  }
}`

// newTestScanner builds a scanner whose runner answers from listings.
func newTestScanner(t *testing.T, cfg *config.Config, listings map[string][]loader.Value) (*scanner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, status bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := newScanner(cfg, logger, &stdout, &status)
	s.newRunner = func(*config.Config) loader.Runner {
		return &fakeRunner{listings: listings}
	}
	return s, &stdout, &status
}

// newTestConfig returns a config that stores snapshots under a temporary
// directory and has no configuration file.
func newTestConfig(t *testing.T, dirs ...string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Dirs = dirs
	cfg.DBDir = t.TempDir()
	cfg.PackageConfigs = &config.File{Packages: make(map[string]config.PackageConfig)}
	return cfg
}

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [dir...]" {
			t.Errorf("expected use 'scan [dir...]', got %q", cmd.Use)
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "import-mode", shorthand: "i", defValue: "dist"},
		{name: "sequence", shorthand: "s", defValue: "parallel"},
		{name: "concurrency", defValue: "0"},
		{name: "condition", defValue: "[]"},
		{name: "ignore", defValue: "[]"},
		{name: "classifier", defValue: "typeof"},
		{name: "node", defValue: "node"},
		{name: "node-arg", defValue: "[]"},
		{name: "batch", shorthand: "b", defValue: "4"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "no-save", defValue: "false"},
		{name: "db-dir", defValue: ""},
	}

	for _, f := range flags {
		t.Run("has "+f.name+" flag", func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(f.name)
			if flag == nil {
				t.Fatalf("expected %s flag", f.name)
			}
			if flag.Shorthand != f.shorthand {
				t.Errorf("expected shorthand %q, got %q", f.shorthand, flag.Shorthand)
			}
			if flag.DefValue != f.defValue {
				t.Errorf("expected default %q, got %q", f.defValue, flag.DefValue)
			}
		})
	}
}

// TestGetVerboseFlag tests reading the persistent verbose flag.
func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	t.Run("reads flag from root", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatal(err)
		}
		scan, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatal(err)
		}
		if !getVerboseFlag(scan) {
			t.Error("expected verbose to be true")
		}
	})

	t.Run("defaults to false without flag", func(t *testing.T) {
		t.Parallel()

		if getVerboseFlag(NewScanCmd()) {
			t.Error("expected verbose to be false")
		}
	})
}

// TestBuildConfig tests building configuration from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults and current directory", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", writeConfigFile(t, "defaults: {}\n")); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff([]string{"."}, cfg.Dirs); diff != "" {
			t.Errorf("dirs mismatch (-want +got):\n%s", diff)
		}
		if cfg.ImportMode != model.ImportModeDist || cfg.Sequence != model.SequenceParallel {
			t.Errorf("unexpected defaults: %s, %s", cfg.ImportMode, cfg.Sequence)
		}
		if cfg.BatchSize != config.DefaultBatchSize {
			t.Errorf("expected batch size %d, got %d", config.DefaultBatchSize, cfg.BatchSize)
		}
		if !cfg.SaveToDB {
			t.Error("expected snapshots to be saved by default")
		}
		if len(cfg.Locked) != 0 {
			t.Errorf("expected no locked fields, got %v", cfg.Locked)
		}
	})

	t.Run("reads flags and locks changed fields", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		dbDir := t.TempDir()
		for flag, value := range map[string]string{
			"config":      writeConfigFile(t, "defaults: {}\n"),
			"import-mode": "src",
			"sequence":    "sequential",
			"concurrency": "3",
			"classifier":  "detailed",
			"node":        "/opt/node/bin/node",
			"batch":       "2",
			"markdown":    "true",
			"output":      "out/report.md",
			"no-save":     "true",
			"db-dir":      dbDir,
		} {
			if err := cmd.Flags().Set(flag, value); err != nil {
				t.Fatalf("set %s: %v", flag, err)
			}
		}
		for _, c := range []string{"import", "default"} {
			if err := cmd.Flags().Set("condition", c); err != nil {
				t.Fatal(err)
			}
		}
		if err := cmd.Flags().Set("ignore", "./internal/*"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("node-arg", "--no-warnings"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"a", "b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ImportMode != model.ImportModeSrc {
			t.Errorf("expected src, got %s", cfg.ImportMode)
		}
		if cfg.Sequence != model.SequenceSequential {
			t.Errorf("expected sequential, got %s", cfg.Sequence)
		}
		if cfg.Concurrency != 3 || cfg.BatchSize != 2 {
			t.Errorf("expected concurrency 3 and batch 2, got %d and %d", cfg.Concurrency, cfg.BatchSize)
		}
		if diff := cmp.Diff([]string{"import", "default"}, cfg.Conditions); diff != "" {
			t.Errorf("conditions mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"./internal/*"}, cfg.IgnorePatterns); diff != "" {
			t.Errorf("ignore mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"--no-warnings"}, cfg.NodeArgs); diff != "" {
			t.Errorf("node args mismatch (-want +got):\n%s", diff)
		}
		if cfg.NodePath != "/opt/node/bin/node" || cfg.Classifier != "detailed" {
			t.Errorf("unexpected node path or classifier: %q, %q", cfg.NodePath, cfg.Classifier)
		}
		if !cfg.MarkdownReport || cfg.ReportFile != "out/report.md" {
			t.Errorf("unexpected report settings: markdown=%v file=%q", cfg.MarkdownReport, cfg.ReportFile)
		}
		if cfg.SaveToDB || cfg.DBDir != dbDir {
			t.Errorf("unexpected database settings: save=%v dir=%q", cfg.SaveToDB, cfg.DBDir)
		}
		if diff := cmp.Diff([]string{"a", "b"}, cfg.Dirs); diff != "" {
			t.Errorf("dirs mismatch (-want +got):\n%s", diff)
		}

		wantLocked := map[string]bool{
			config.FieldImportMode: true,
			config.FieldSequence:   true,
			config.FieldConditions: true,
			config.FieldIgnore:     true,
			config.FieldNodeArgs:   true,
			config.FieldClassifier: true,
		}
		if diff := cmp.Diff(wantLocked, cfg.Locked); diff != "" {
			t.Errorf("locked mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("loads package overrides from config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		path := writeConfigFile(t, "packages:\n  rollup:\n    importMode: package\n")
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := cfg.PackageConfigs.Packages["rollup"].ImportMode; got != "package" {
			t.Errorf("expected rollup override, got %q", got)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
			t.Fatal(err)
		}

		_, err := buildConfig(cmd, nil)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid import mode is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("import-mode", "cdn"); err != nil {
			t.Fatal(err)
		}

		_, err := buildConfig(cmd, nil)
		if !errors.Is(err, model.ErrInvalidImportMode) {
			t.Fatalf("expected ErrInvalidImportMode, got %v", err)
		}
	})
}

// writeConfigFile writes a configuration file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".pkgexports")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestRunScanCmdConflictingFormats tests validation before scanning.
func TestRunScanCmdConflictingFormats(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()
	for flag, value := range map[string]string{
		"config":   writeConfigFile(t, "defaults: {}\n"),
		"json":     "true",
		"markdown": "true",
		"no-save":  "true",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatal(err)
		}
	}

	err := runScanCmd(cmd, []string{t.TempDir()})
	if !errors.Is(err, config.ErrConflictingReportFormats) {
		t.Fatalf("expected ErrConflictingReportFormats, got %v", err)
	}
}

// TestScannerRun tests scanning with a fake module runner.
func TestScannerRun(t *testing.T) {
	t.Parallel()

	t.Run("writes text report and saves snapshot", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, fixtureManifest)
		cfg := newTestConfig(t, dir)
		s, stdout, status := newTestScanner(t, cfg, fixtureListings)

		if err := s.run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := stdout.String()
		for _, want := range []string{"fixture-lib@1.2.3", "[.] (3)", "[./utils] (1)", "defineConfig  function"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected report to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "internal") {
			t.Error("expected pattern entry to be skipped")
		}
		if !strings.Contains(status.String(), "[1/1] fixture-lib@1.2.3: 2 entries, 4 names") {
			t.Errorf("unexpected status output: %q", status.String())
		}

		db, err := database.Open(cfg.DBDir, database.Options{})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		saved, err := db.GetLatestReport(context.Background(), "fixture-lib")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved == nil {
			t.Fatal("expected snapshot to be saved")
		}
		if diff := cmp.Diff([]string{"defaults", "defineConfig", "VERSION"}, saved.Exports["."].Names()); diff != "" {
			t.Errorf("saved names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("writes JSON report to file", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, fixtureManifest)
		cfg := newTestConfig(t, dir)
		cfg.JSONReport = true
		cfg.SaveToDB = false
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "exports.json")
		s, stdout, _ := newTestScanner(t, cfg, fixtureListings)

		if err := s.run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.Len() != 0 {
			t.Error("expected nothing on stdout when writing to a file")
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		var got model.Report
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		want := map[string][]string{
			".":       {"defaults", "defineConfig", "VERSION"},
			"./utils": {"isObject"},
		}
		gotNames := make(map[string][]string)
		for exportPath, summary := range got.Exports {
			gotNames[exportPath] = summary.Names()
		}
		if diff := cmp.Diff(want, gotNames); diff != "" {
			t.Errorf("exports mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("detailed classifier from config file", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, fixtureManifest)
		cfg := newTestConfig(t, dir)
		cfg.SaveToDB = false
		cfg.JSONReport = true
		cfg.PackageConfigs.Packages["fixture-lib"] = config.PackageConfig{
			Classifier:     "detailed",
			IgnorePatterns: []string{"./utils"},
		}
		s, stdout, _ := newTestScanner(t, cfg, fixtureListings)

		if err := s.run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.Report
		if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if typ, _ := got.Exports["."].Lookup("defaults"); typ != "null" {
			t.Errorf("expected detailed type null, got %q", typ)
		}
		if _, ok := got.Exports["./utils"]; ok {
			t.Error("expected ./utils to be ignored")
		}
	})

	t.Run("reports failing packages and continues", func(t *testing.T) {
		t.Parallel()

		good := writePackage(t, fixtureManifest)
		private := writePackage(t, `{"name":"secret","private":true}`)
		cfg := newTestConfig(t, good, private)
		cfg.SaveToDB = false
		s, stdout, status := newTestScanner(t, cfg, fixtureListings)

		err := s.run(context.Background())
		if !errors.Is(err, errPackagesFailed) {
			t.Fatalf("expected errPackagesFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("expected failure count in error, got %v", err)
		}
		if !strings.Contains(stdout.String(), "fixture-lib@1.2.3") {
			t.Error("expected report of the good package")
		}
		if !strings.Contains(status.String(), private) {
			t.Errorf("expected failing dir in status, got %q", status.String())
		}
	})

	t.Run("load failure fails the package", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, fixtureManifest)
		cfg := newTestConfig(t, dir)
		cfg.SaveToDB = false
		listings := map[string][]loader.Value{"dist/index.mjs": fixtureListings["dist/index.mjs"]}
		s, stdout, _ := newTestScanner(t, cfg, listings)

		err := s.run(context.Background())
		if !errors.Is(err, errPackagesFailed) {
			t.Fatalf("expected errPackagesFailed, got %v", err)
		}
		if stdout.Len() != 0 {
			t.Error("expected no partial report")
		}
	})

	t.Run("invalid package override fails the package", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, fixtureManifest)
		cfg := newTestConfig(t, dir)
		cfg.SaveToDB = false
		cfg.PackageConfigs.Packages["fixture-lib"] = config.PackageConfig{ImportMode: "cdn"}
		s, _, status := newTestScanner(t, cfg, fixtureListings)

		if err := s.run(context.Background()); !errors.Is(err, errPackagesFailed) {
			t.Fatalf("expected errPackagesFailed, got %v", err)
		}
		if !strings.Contains(status.String(), "fixture-lib") {
			t.Errorf("expected package name in status, got %q", status.String())
		}
	})
}

// TestOutputReport tests report format selection.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	r := model.NewReport(model.PackageInfo{Name: "lib", Version: "1.0.0"}, model.ImportModeDist)
	r.Exports["."] = model.ModuleSummary{{Name: "a", Type: "function"}}

	tests := []struct {
		name     string
		json     bool
		markdown bool
		want     string
	}{
		{name: "text by default", want: "PACKAGE EXPORTS REPORT"},
		{name: "json", json: true, want: `"importMode": "dist"`},
		{name: "markdown", markdown: true, want: "# Exports of lib"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.JSONReport = tt.json
			cfg.MarkdownReport = tt.markdown

			var buf bytes.Buffer
			if err := outputReport(cfg, &buf, r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

// TestSaveReport tests saving with and without a database.
func TestSaveReport(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := model.NewReport(model.PackageInfo{Name: "lib"}, model.ImportModeDist)

	t.Run("nil database is a no-op", func(t *testing.T) {
		t.Parallel()

		if err := saveReport(context.Background(), nil, r, logger); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("stores the report", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		if err := saveReport(context.Background(), db, r, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		packages, err := db.ListPackages(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"lib"}, packages); diff != "" {
			t.Errorf("packages mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestPackageNameAt tests reading the package name for config lookup.
func TestPackageNameAt(t *testing.T) {
	t.Parallel()

	t.Run("reads name from manifest in parent", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, fixtureManifest)
		nested := filepath.Join(dir, "src", "deep")
		if err := os.MkdirAll(nested, 0750); err != nil {
			t.Fatal(err)
		}
		if got := packageNameAt(nested); got != "fixture-lib" {
			t.Errorf("expected fixture-lib, got %q", got)
		}
	})

	t.Run("unreadable manifest yields empty name", func(t *testing.T) {
		t.Parallel()

		dir := writePackage(t, `{not json`)
		if got := packageNameAt(dir); got != "" {
			t.Errorf("expected empty name, got %q", got)
		}
	})
}
