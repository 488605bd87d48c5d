package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/pkgexports/internal/model"
)

// summaryFor returns a deterministic summary for an entry.
func summaryFor(entry model.ExportEntry) model.ModuleSummary {
	return model.ModuleSummary{{Name: "from " + entry.TargetPath, Type: "function"}}
}

// TestAssemble tests both sequencing strategies.
func TestAssemble(t *testing.T) {
	t.Parallel()

	entries := []model.ExportEntry{
		{ExportPath: ".", TargetPath: "./dist/index.mjs"},
		{ExportPath: "./utils", TargetPath: "./dist/utils.mjs"},
		{ExportPath: "./config", TargetPath: "./dist/config.mjs"},
	}
	ok := fakeEntryLoader(func(_ context.Context, e model.ExportEntry) (model.ModuleSummary, error) {
		return summaryFor(e), nil
	})

	t.Run("parallel and sequential produce the same result", func(t *testing.T) {
		t.Parallel()

		par, err := NewAssembler(ok, model.SequenceParallel, 0).Assemble(context.Background(), entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seq, err := NewAssembler(ok, model.SequenceSequential, 0).Assemble(context.Background(), entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(par, seq); diff != "" {
			t.Errorf("parallel and sequential differ (-parallel +sequential):\n%s", diff)
		}
		if len(par) != len(entries) {
			t.Errorf("expected %d entries, got %d", len(entries), len(par))
		}
		for _, e := range entries {
			if diff := cmp.Diff(summaryFor(e), par[e.ExportPath]); diff != "" {
				t.Errorf("summary for %s mismatch (-want +got):\n%s", e.ExportPath, diff)
			}
		}
	})

	t.Run("empty entries give an empty map", func(t *testing.T) {
		t.Parallel()

		got, err := NewAssembler(ok, model.SequenceParallel, 0).Assemble(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil map, got %v", got)
		}
	})

	t.Run("duplicate export paths are rejected before loading", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := fakeEntryLoader(func(_ context.Context, e model.ExportEntry) (model.ModuleSummary, error) {
			calls.Add(1)
			return summaryFor(e), nil
		})
		dup := []model.ExportEntry{
			{ExportPath: ".", TargetPath: "./a.mjs"},
			{ExportPath: ".", TargetPath: "./b.mjs"},
		}

		_, err := NewAssembler(l, model.SequenceParallel, 0).Assemble(context.Background(), dup)
		if !errors.Is(err, ErrDuplicateExportPath) {
			t.Errorf("expected ErrDuplicateExportPath, got %v", err)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no loads, got %d", calls.Load())
		}
	})

	t.Run("parallel failure does not cancel siblings and returns no map", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var completed atomic.Int32
		l := fakeEntryLoader(func(ctx context.Context, e model.ExportEntry) (model.ModuleSummary, error) {
			if e.ExportPath == "./utils" {
				return nil, boom
			}
			time.Sleep(20 * time.Millisecond)
			if ctx.Err() == nil {
				completed.Add(1)
			}
			return summaryFor(e), nil
		})

		got, err := NewAssembler(l, model.SequenceParallel, 0).Assemble(context.Background(), entries)
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no partial result, got %v", got)
		}
		if completed.Load() != 2 {
			t.Errorf("expected both siblings to finish uncancelled, got %d", completed.Load())
		}
	})

	t.Run("sequential stops at the first failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var loaded []string
		l := fakeEntryLoader(func(_ context.Context, e model.ExportEntry) (model.ModuleSummary, error) {
			loaded = append(loaded, e.ExportPath)
			if e.ExportPath == "./utils" {
				return nil, boom
			}
			return summaryFor(e), nil
		})

		got, err := NewAssembler(l, model.SequenceSequential, 0).Assemble(context.Background(), entries)
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no partial result, got %v", got)
		}
		if diff := cmp.Diff([]string{".", "./utils"}, loaded); diff != "" {
			t.Errorf("load order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("concurrency limit is respected", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		l := fakeEntryLoader(func(_ context.Context, e model.ExportEntry) (model.ModuleSummary, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return summaryFor(e), nil
		})

		many := make([]model.ExportEntry, 8)
		for i := range many {
			many[i] = model.ExportEntry{ExportPath: "./e" + string(rune('a'+i)), TargetPath: "./x.mjs"}
		}

		if _, err := NewAssembler(l, model.SequenceParallel, 2).Assemble(context.Background(), many); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent loads, got %d", peak.Load())
		}
	})
}
