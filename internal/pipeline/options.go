package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/nao1215/pkgexports/internal/loader"
	"github.com/nao1215/pkgexports/internal/manifest"
	"github.com/nao1215/pkgexports/internal/model"
)

// Options holds every strategy of an inspection. The zero value is usable:
// each unset field gets its default independently.
type Options struct {
	// Cwd is where the manifest search starts. Default: process working
	// directory.
	Cwd string

	// ImportMode selects how targets are addressed. Default: dist.
	ImportMode model.ImportMode

	// Sequence selects parallel or sequential loading. Default: parallel.
	Sequence model.Sequence

	// Concurrency caps simultaneous loads in parallel mode. 0 is unlimited.
	Concurrency int

	// ResolveExportEntries post-processes the normalized entries.
	// Default: identity.
	ResolveExportEntries manifest.EntryTransform

	// ResolveValueType maps a loaded value to its type tag.
	// Default: loader.TypeOf.
	ResolveValueType loader.ValueClassifier

	// ResolveSourcePath maps a dist path to a src path in src mode.
	// Default: loader.DefaultSourcePath.
	ResolveSourcePath loader.SourcePathRewriter

	// ResolveExportsValue picks a target path from an export value.
	// Default: condition resolver over Conditions.
	ResolveExportsValue manifest.ValueResolver

	// Conditions is the priority list used by the default value resolver.
	// Default: manifest.DefaultConditions.
	Conditions []string

	// ShouldIgnoreEntry excludes entries. Default: nothing is ignored.
	ShouldIgnoreEntry manifest.EntryFilter

	// Runner imports modules. Default: loader.NewNodeRunner().
	Runner loader.Runner

	// Logger receives step progress at debug level. Default: slog.Default().
	Logger *slog.Logger
}

// withDefaults returns a copy of o with every unset field filled in.
func (o Options) withDefaults() (Options, error) {
	if o.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("failed to get working directory: %w", err)
		}
		o.Cwd = wd
	}

	if o.ImportMode == "" {
		o.ImportMode = model.DefaultImportMode
	}
	if err := o.ImportMode.Validate(); err != nil {
		return o, err
	}

	if o.Sequence == "" {
		o.Sequence = model.DefaultSequence
	}
	if err := o.Sequence.Validate(); err != nil {
		return o, err
	}

	if o.Concurrency < 0 {
		return o, fmt.Errorf("%w: %d", ErrInvalidConcurrency, o.Concurrency)
	}

	if o.ResolveExportEntries == nil {
		o.ResolveExportEntries = func(entries []model.ExportEntry) []model.ExportEntry { return entries }
	}
	if o.ResolveValueType == nil {
		o.ResolveValueType = loader.TypeOf
	}
	if o.ResolveSourcePath == nil {
		o.ResolveSourcePath = loader.DefaultSourcePath
	}
	if len(o.Conditions) == 0 {
		o.Conditions = manifest.DefaultConditions
	}
	if o.ResolveExportsValue == nil {
		o.ResolveExportsValue = manifest.NewConditionResolver(o.Conditions...)
	}
	if o.ShouldIgnoreEntry == nil {
		o.ShouldIgnoreEntry = func(string, manifest.ExportValue) bool { return false }
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Runner == nil {
		o.Runner = loader.NewNodeRunner(loader.WithRunnerLogger(o.Logger))
	}
	return o, nil
}

// IgnoreExportPaths returns an entry filter matching export paths against
// path.Match patterns, e.g. "./internal/*". Malformed patterns never match.
func IgnoreExportPaths(patterns ...string) manifest.EntryFilter {
	if len(patterns) == 0 {
		return nil
	}
	patterns = append([]string(nil), patterns...)
	return func(exportPath string, _ manifest.ExportValue) bool {
		for _, p := range patterns {
			if ok, err := path.Match(p, exportPath); err == nil && ok {
				return true
			}
		}
		return false
	}
}
