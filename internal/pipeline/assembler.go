package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/pkgexports/internal/model"
	"golang.org/x/sync/errgroup"
)

// EntryLoader loads one export entry. *loader.Loader implements it.
type EntryLoader interface {
	Load(ctx context.Context, entry model.ExportEntry) (model.ModuleSummary, error)
}

// Assembler loads all entries of a package and keys the results by
// export path.
type Assembler struct {
	loader      EntryLoader
	sequence    model.Sequence
	concurrency int
}

// NewAssembler creates an Assembler. concurrency only applies to parallel
// loading; 0 means every entry starts at once.
func NewAssembler(l EntryLoader, sequence model.Sequence, concurrency int) *Assembler {
	return &Assembler{
		loader:      l,
		sequence:    sequence,
		concurrency: concurrency,
	}
}

// Assemble loads entries and returns their summaries keyed by export path.
// Any failure fails the whole assembly and no partial map is returned.
//
// In parallel mode a failing load does not cancel its siblings; their
// results are discarded once every load has finished. In sequential mode
// entries load in order and the first failure stops the remaining ones.
func (a *Assembler) Assemble(ctx context.Context, entries []model.ExportEntry) (map[string]model.ModuleSummary, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ExportPath]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateExportPath, e.ExportPath)
		}
		seen[e.ExportPath] = struct{}{}
	}

	var (
		summaries []model.ModuleSummary
		err       error
	)
	if a.sequence == model.SequenceSequential {
		summaries, err = a.sequential(ctx, entries)
	} else {
		summaries, err = a.parallel(ctx, entries)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]model.ModuleSummary, len(entries))
	for i, e := range entries {
		out[e.ExportPath] = summaries[i]
	}
	return out, nil
}

func (a *Assembler) parallel(ctx context.Context, entries []model.ExportEntry) ([]model.ModuleSummary, error) {
	summaries := make([]model.ModuleSummary, len(entries))

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for i, e := range entries {
		g.Go(func() error {
			s, err := a.loader.Load(ctx, e)
			if err != nil {
				return err
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (a *Assembler) sequential(ctx context.Context, entries []model.ExportEntry) ([]model.ModuleSummary, error) {
	summaries := make([]model.ModuleSummary, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := a.loader.Load(ctx, e)
		if err != nil {
			return nil, err
		}
		summaries[i] = s
	}
	return summaries, nil
}
