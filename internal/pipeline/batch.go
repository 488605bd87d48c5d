package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/pkgexports/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of packages inspected at once when
// no limit is configured.
const DefaultBatchConcurrency = 4

// Result is the outcome of inspecting one package directory.
type Result struct {
	// Dir is the directory the inspection started from.
	Dir string

	// Report is nil when Err is set.
	Report *model.Report

	// Err is the inspection failure, if any.
	Err error
}

// OptionsFunc returns the inspection options for one directory. An error
// fails that directory only.
type OptionsFunc func(dir string) (Options, error)

// InspectFunc inspects one package. Inspect is the default.
type InspectFunc func(ctx context.Context, opts Options) (*model.Report, error)

// BatchProcessor inspects several package directories concurrently.
// A failing package does not stop the others; its error is recorded in
// its Result.
type BatchProcessor struct {
	// optionsFor returns the options for one directory.
	optionsFor OptionsFunc

	inspect     InspectFunc
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent inspections.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithInspectFunc replaces the function used to inspect one directory.
func WithInspectFunc(fn InspectFunc) BatchOption {
	return func(b *BatchProcessor) {
		if fn != nil {
			b.inspect = fn
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. optionsFor is called once per
// directory so each package can carry its own configuration; its Cwd is
// replaced by the directory.
func NewBatchProcessor(optionsFor OptionsFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		optionsFor:  optionsFor,
		inspect:     Inspect,
		concurrency: DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	if bp.optionsFor == nil {
		bp.optionsFor = func(string) (Options, error) { return Options{}, nil }
	}

	return bp
}

// ProcessBatch inspects dirs and returns one Result per directory, in the
// same order. The error is non-nil only when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, dirs []string) ([]Result, error) {
	results := make([]Result, len(dirs))
	err := bp.ProcessBatchWithCallback(ctx, dirs, func(r Result, i int) {
		results[i] = r
	})
	return results, err
}

// ProcessBatchWithCallback inspects dirs and calls callback as each one
// completes. The callback runs on the inspecting goroutine and must be safe
// for concurrent use when it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, dirs []string, callback func(r Result, index int)) error {
	bp.logger.Debug("starting batch inspection",
		"total_packages", len(dirs),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				callback(Result{Dir: dir, Err: err}, i)
				return nil
			}

			opts, err := bp.optionsFor(dir)
			if err != nil {
				bp.logger.Debug("options failed", "dir", dir, "error", err)
				callback(Result{Dir: dir, Err: err}, i)
				return nil
			}
			opts.Cwd = dir

			report, err := bp.inspect(ctx, opts)
			if err != nil {
				bp.logger.Debug("inspection failed", "dir", dir, "error", err)
			}
			callback(Result{Dir: dir, Report: report, Err: err}, i)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	bp.logger.Debug("batch inspection complete",
		"total_packages", len(dirs),
		"elapsed", time.Since(start),
	)
	return ctx.Err()
}
