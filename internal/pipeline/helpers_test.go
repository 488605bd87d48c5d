package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/pkgexports/internal/loader"
	"github.com/nao1215/pkgexports/internal/model"
)

// fakeRunner is a loader.Runner that answers from a table keyed by the
// specifier's suffix.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	listings map[string][]loader.Value
	errs     map[string]error
}

// Import implements loader.Runner.
func (f *fakeRunner) Import(_ context.Context, _, specifier string) ([]loader.Value, error) {
	f.mu.Lock()
	f.calls = append(f.calls, specifier)
	f.mu.Unlock()

	for suffix, err := range f.errs {
		if strings.HasSuffix(specifier, suffix) {
			return nil, err
		}
	}
	for suffix, values := range f.listings {
		if strings.HasSuffix(specifier, suffix) {
			return values, nil
		}
	}
	return nil, nil
}

// Calls returns the specifiers imported so far.
func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
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

// mkdirAll creates dir and its parents.
func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0750)
}

// fakeEntryLoader is an EntryLoader backed by a function.
type fakeEntryLoader func(ctx context.Context, entry model.ExportEntry) (model.ModuleSummary, error)

// Load implements EntryLoader.
func (f fakeEntryLoader) Load(ctx context.Context, entry model.ExportEntry) (model.ModuleSummary, error) {
	return f(ctx, entry)
}
