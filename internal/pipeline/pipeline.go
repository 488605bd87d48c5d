package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/pkgexports/internal/manifest"
	"github.com/nao1215/pkgexports/internal/model"
)

// Run is the state shared by the steps of one inspection. Each step reads
// what earlier steps produced and fills in its own field.
//
// Design decision: steps pass a Run rather than mutating a Report in place,
// because the Report must not exist until every entry has loaded. A failed
// step leaves Report nil, so no caller can observe a partial result.
type Run struct {
	// Options are the resolved strategies, defaults applied.
	Options Options

	// ManifestPath is the absolute path of package.json.
	ManifestPath string

	// Manifest is the parsed, publishable manifest.
	Manifest *manifest.Manifest

	// Entries are the normalized export entries in declaration order.
	Entries []model.ExportEntry

	// Report is the assembled result.
	Report *model.Report
}

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the step against the shared run state.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// DefaultPipeline returns the locate, parse, normalize and load steps.
func DefaultPipeline(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		&LocateStep{},
		&ParseStep{},
		&NormalizeStep{},
		&LoadStep{},
	)
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and stops at the first error.
// Cancellation is checked before each step.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			return err
		}

		p.logger.Debug("step completed", "step", step.Name())
	}
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
