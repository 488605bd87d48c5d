package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/pkgexports/internal/loader"
	"github.com/nao1215/pkgexports/internal/manifest"
	"github.com/nao1215/pkgexports/internal/model"
)

// LocateStep finds the nearest package.json at or above Options.Cwd.
type LocateStep struct{}

// Name returns the step name.
func (s *LocateStep) Name() string {
	return "locate"
}

// Do executes the locate step.
func (s *LocateStep) Do(_ context.Context, run *Run) error {
	path, err := manifest.Find(run.Options.Cwd)
	if err != nil {
		return err
	}
	run.ManifestPath = path
	run.Options.Logger.Debug("found manifest", "path", path)
	return nil
}

// ParseStep reads the manifest and rejects unpublishable packages.
type ParseStep struct{}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do executes the parse step.
func (s *ParseStep) Do(_ context.Context, run *Run) error {
	if run.ManifestPath == "" {
		return fmt.Errorf("%w: parse needs a manifest path", ErrStepPrecondition)
	}
	m, err := manifest.Load(run.ManifestPath)
	if err != nil {
		return err
	}
	run.Manifest = m
	run.Options.Logger.Debug("parsed manifest", "name", m.Name, "version", m.Version)
	return nil
}

// NormalizeStep turns the export map into concrete entries.
type NormalizeStep struct{}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the normalize step.
func (s *NormalizeStep) Do(_ context.Context, run *Run) error {
	if run.Manifest == nil {
		return fmt.Errorf("%w: normalize needs a manifest", ErrStepPrecondition)
	}
	run.Entries = manifest.Normalize(run.Manifest, manifest.NormalizeOptions{
		ResolveExportsValue:  run.Options.ResolveExportsValue,
		ShouldIgnoreEntry:    run.Options.ShouldIgnoreEntry,
		ResolveExportEntries: run.Options.ResolveExportEntries,
	})
	run.Options.Logger.Debug("normalized exports", "entries", len(run.Entries))
	return nil
}

// LoadStep loads every entry and assembles the report.
type LoadStep struct{}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(ctx context.Context, run *Run) error {
	if run.Manifest == nil {
		return fmt.Errorf("%w: load needs a manifest", ErrStepPrecondition)
	}
	o := run.Options
	m := run.Manifest

	resolver, err := loader.NewResolver(o.ImportMode, m.Name, m.Dir(), o.ResolveSourcePath)
	if err != nil {
		return err
	}
	l := loader.New(resolver, o.Runner, m.Dir(), loader.WithClassifier(o.ResolveValueType))

	exports, err := NewAssembler(l, o.Sequence, o.Concurrency).Assemble(ctx, run.Entries)
	if err != nil {
		return err
	}

	report := model.NewReport(model.PackageInfo{Name: m.Name, Version: m.Version}, o.ImportMode)
	report.Exports = exports
	run.Report = report
	return nil
}
