package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/pkgexports/internal/config"
	"github.com/nao1215/pkgexports/internal/database"
	"github.com/nao1215/pkgexports/internal/model"
)

// skipIfShort skips the test if -short flag is set.
// Integration tests start one node process per entry.
func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// skipIfNoNode skips the test if the node binary is not available.
func skipIfNoNode(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("skipping integration test: node binary not found")
	}
}

// writeModulePackage writes an ES module package with the given dist files.
func writeModulePackage(t *testing.T, version string, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	files["package.json"] = `{
  "name": "fixture-lib",
  "version": "` + version + `",
  "type": "module",
  "exports": {
    ".": "./dist/index.mjs",
    "./utils": {"import": "./dist/utils.mjs", "require": "./dist/utils.cjs"}
  }
}`
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// TestIntegrationScanAndCompare scans two versions of a package with real
// node, then compares the stored snapshots.
func TestIntegrationScanAndCompare(t *testing.T) {
	skipIfShort(t)
	skipIfNoNode(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbDir := filepath.Join(t.TempDir(), "db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	scan := func(dir string) string {
		t.Helper()

		cfg := config.NewConfig()
		cfg.Dirs = []string{dir}
		cfg.DBDir = dbDir
		cfg.Classifier = "detailed"
		cfg.PackageConfigs = &config.File{Packages: make(map[string]config.PackageConfig)}

		var stdout, status strings.Builder
		if err := newScanner(cfg, logger, &stdout, &status).run(ctx); err != nil {
			t.Fatalf("scan failed: %v\n%s", err, status.String())
		}
		return stdout.String()
	}

	first := scan(writeModulePackage(t, "1.0.0", map[string]string{
		"dist/index.mjs": `console.log('side effect on import');
export const VERSION = '1.0.0';
export function defineConfig(config) { return config; }
export const plugins = [];
export default { answer: 42 };
`,
		"dist/utils.mjs": "export class Helper {}\nexport const count = 3;\n",
	}))
	for _, want := range []string{"fixture-lib@1.0.0", "defineConfig  function", "plugins       array"} {
		if !strings.Contains(first, want) {
			t.Errorf("expected first report to contain %q, got:\n%s", want, first)
		}
	}
	if strings.Contains(first, "side effect") {
		t.Error("module output leaked into the report")
	}

	scan(writeModulePackage(t, "2.0.0", map[string]string{
		"dist/index.mjs": `export const VERSION = '2.0.0';
export function defineConfig(config) { return config; }
export const plugins = {};
export function createServer() {}
export default { answer: 42 };
`,
		"dist/utils.mjs": "export class Helper {}\n",
	}))

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	history, err := db.GetHistory(ctx, "fixture-lib")
	_ = db.Close()
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(history))
	}

	comparison := compareReports(history[1], history[0])
	if comparison.Direction != changeBreaking {
		t.Errorf("expected breaking change, got %s", comparison.Direction)
	}

	want := []EntryChange{
		{
			ExportPath:   ".",
			AddedNames:   []model.Export{{Name: "createServer", Type: "function"}},
			ChangedTypes: []TypeChange{{Name: "plugins", Previous: "array", Current: "object"}},
		},
		{
			ExportPath:   "./utils",
			RemovedNames: []model.Export{{Name: "count", Type: "number"}},
		},
	}
	if diff := cmp.Diff(want, comparison.Changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}
