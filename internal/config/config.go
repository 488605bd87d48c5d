package config

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"github.com/nao1215/pkgexports/internal/loader"
	"github.com/nao1215/pkgexports/internal/manifest"
	"github.com/nao1215/pkgexports/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "pkgexports"

	// DefaultBatchSize is the number of packages inspected at once when
	// several directories are given. Each inspection starts one node process
	// per entry, so this stays small.
	DefaultBatchSize = 4

	// DefaultConcurrency leaves per-package loads unlimited.
	DefaultConcurrency = 0

	// DefaultClassifier is the name of the primitive typeof classifier.
	DefaultClassifier = "typeof"
)

// Field names used in Config.Locked to keep command line values from being
// replaced by the configuration file.
const (
	FieldImportMode = "importMode"
	FieldSequence   = "sequence"
	FieldConditions = "conditions"
	FieldIgnore     = "ignore"
	FieldNodeArgs   = "nodeArgs"
	FieldClassifier = "classifier"
)

// Config holds all configuration options for pkgexports.
// It is populated from CLI flags and the configuration file and passed
// through the application rather than kept in global state.
type Config struct {
	// Dirs are the directories to inspect. Each is searched upward for
	// package.json. Empty means the current directory.
	Dirs []string

	// ImportMode selects how entries are addressed: package, dist or src.
	ImportMode model.ImportMode

	// Sequence selects parallel or sequential loading of one package's
	// entries.
	Sequence model.Sequence

	// Concurrency caps simultaneous loads per package. 0 is unlimited.
	Concurrency int

	// Conditions overrides the condition priority list used to resolve
	// conditional exports. Empty means manifest.DefaultConditions.
	Conditions []string

	// IgnorePatterns are export path globs excluded from inspection,
	// e.g. "./internal/*".
	IgnorePatterns []string

	// NodePath is the node executable.
	NodePath string

	// NodeArgs are extra node arguments, e.g. "--import=tsx" for src mode
	// on TypeScript sources.
	NodeArgs []string

	// Classifier names the value classifier: typeof or detailed.
	Classifier string

	// BatchSize is the number of packages inspected concurrently.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .pkgexports is searched in the current and home directories.
	ConfigFilePath string

	// PackageConfigs holds per-package settings from the configuration file.
	PackageConfigs *File

	// Locked lists fields set explicitly on the command line. The
	// configuration file does not override them.
	Locked map[string]bool

	// JSONReport enables JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables and a type
	// distribution chart. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. Directories are
	// created if they don't exist. Empty means stdout.
	ReportFile string

	// DBDir is the directory holding the snapshot database.
	// Defaults to the XDG data directory (~/.local/share/pkgexports on Linux).
	DBDir string

	// SaveToDB indicates whether reports are saved as snapshots.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ImportMode:  model.DefaultImportMode,
		Sequence:    model.DefaultSequence,
		Concurrency: DefaultConcurrency,
		NodePath:    loader.DefaultNodePath,
		Classifier:  DefaultClassifier,
		BatchSize:   DefaultBatchSize,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
		Locked:      make(map[string]bool),
	}
}

// XDGDataDir returns the XDG data directory for pkgexports.
// On Linux: ~/.local/share/pkgexports
// On macOS: ~/Library/Application Support/pkgexports
// On Windows: %LOCALAPPDATA%\pkgexports
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pkgexports.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if err := c.ImportMode.Validate(); err != nil {
		return err
	}
	if err := c.Sequence.Validate(); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.NodePath == "" {
		return ErrEmptyNodePath
	}
	if _, ok := loader.Classifiers[c.Classifier]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClassifier, c.Classifier)
	}
	for _, p := range c.IgnorePatterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidIgnorePattern, p, err)
		}
	}
	return nil
}

// ClassifierFunc returns the value classifier selected by Classifier.
func (c *Config) ClassifierFunc() loader.ValueClassifier {
	if fn, ok := loader.Classifiers[c.Classifier]; ok {
		return fn
	}
	return loader.TypeOf
}

// EffectiveConditions returns Conditions, or the default list when unset.
func (c *Config) EffectiveConditions() []string {
	if len(c.Conditions) == 0 {
		return slices.Clone(manifest.DefaultConditions)
	}
	return slices.Clone(c.Conditions)
}

// ForPackage returns a copy of c with the configuration file's defaults and
// the settings for the named package applied. Fields listed in Locked keep
// their command line values.
func (c *Config) ForPackage(name string) (*Config, error) {
	out := *c
	out.Dirs = slices.Clone(c.Dirs)
	out.Conditions = slices.Clone(c.Conditions)
	out.IgnorePatterns = slices.Clone(c.IgnorePatterns)
	out.NodeArgs = slices.Clone(c.NodeArgs)

	if c.PackageConfigs == nil {
		return &out, nil
	}
	pc := c.PackageConfigs.GetPackageConfig(name)

	if pc.ImportMode != "" && !c.Locked[FieldImportMode] {
		mode, err := model.ParseImportMode(pc.ImportMode)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", name, err)
		}
		out.ImportMode = mode
	}
	if pc.Sequence != "" && !c.Locked[FieldSequence] {
		seq, err := model.ParseSequence(pc.Sequence)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", name, err)
		}
		out.Sequence = seq
	}
	if len(pc.Conditions) > 0 && !c.Locked[FieldConditions] {
		out.Conditions = slices.Clone(pc.Conditions)
	}
	if len(pc.IgnorePatterns) > 0 && !c.Locked[FieldIgnore] {
		out.IgnorePatterns = slices.Clone(pc.IgnorePatterns)
	}
	if len(pc.NodeArgs) > 0 && !c.Locked[FieldNodeArgs] {
		out.NodeArgs = slices.Clone(pc.NodeArgs)
	}
	if pc.Classifier != "" && !c.Locked[FieldClassifier] {
		out.Classifier = pc.Classifier
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("package %s: %w", name, err)
	}
	return &out, nil
}
