package loader

import (
	"context"
	"sort"

	"github.com/nao1215/pkgexports/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Loader loads export entries of one package.
type Loader struct {
	resolver Resolver
	runner   Runner
	classify ValueClassifier
	dir      string
}

// Option configures a Loader.
type Option func(*Loader)

// WithClassifier sets the value classifier. Nil keeps TypeOf.
func WithClassifier(classify ValueClassifier) Option {
	return func(l *Loader) {
		if classify != nil {
			l.classify = classify
		}
	}
}

// New creates a Loader. dir is the package root, used as the runtime's
// working directory so package specifiers resolve like they would for a
// consumer inside the package.
func New(resolver Resolver, runner Runner, dir string, opts ...Option) *Loader {
	l := &Loader{
		resolver: resolver,
		runner:   runner,
		classify: TypeOf,
		dir:      dir,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mode returns the import mode of the underlying resolver.
func (l *Loader) Mode() model.ImportMode {
	return l.resolver.Mode()
}

// Load imports entry and returns its exported names with their type tags,
// sorted by name. Any failure is returned as *LoadError.
func (l *Loader) Load(ctx context.Context, entry model.ExportEntry) (model.ModuleSummary, error) {
	specifier, err := l.resolver.Resolve(entry)
	if err != nil {
		return nil, &LoadError{ExportPath: entry.ExportPath, Err: err}
	}

	values, err := l.runner.Import(ctx, l.dir, specifier)
	if err != nil {
		return nil, &LoadError{ExportPath: entry.ExportPath, Specifier: specifier, Err: err}
	}

	summary := make(model.ModuleSummary, 0, len(values))
	for _, v := range values {
		summary = append(summary, model.Export{Name: v.Name, Type: l.classify(v)})
	}
	SortSummary(summary)

	return summary, nil
}

// SortSummary sorts s in place by name using root-locale collation, the
// order a JavaScript localeCompare produces. Names that collate equal are
// ordered by their bytes so the result is total.
func SortSummary(s model.ModuleSummary) {
	c := collate.New(language.Und)
	sort.SliceStable(s, func(i, j int) bool {
		if r := c.CompareString(s[i].Name, s[j].Name); r != 0 {
			return r < 0
		}
		return s[i].Name < s[j].Name
	})
}
