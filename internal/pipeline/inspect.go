package pipeline

import (
	"context"

	"github.com/nao1215/pkgexports/internal/model"
)

// Inspect locates the package at or above opts.Cwd and returns the
// export report of every entry it declares.
//
// The returned error is the first failure of the run: a missing manifest,
// malformed JSON, an unpublishable package, or a module that failed to
// load. The core never logs these; it returns them.
func Inspect(ctx context.Context, opts Options) (*model.Report, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	run := &Run{Options: o}
	if err := DefaultPipeline(WithLogger(o.Logger)).Execute(ctx, run); err != nil {
		return nil, err
	}
	return run.Report, nil
}
