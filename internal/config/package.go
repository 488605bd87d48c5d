package config

// PackageConfig holds settings for one package. Empty fields leave the
// global value unchanged.
type PackageConfig struct {
	// ImportMode overrides the import mode: package, dist or src.
	ImportMode string `yaml:"importMode,omitempty"`

	// Sequence overrides the load sequence: parallel or sequential.
	Sequence string `yaml:"sequence,omitempty"`

	// Conditions replaces the condition priority list.
	Conditions []string `yaml:"conditions,omitempty"`

	// IgnorePatterns are export path globs to skip, e.g. "./internal/*".
	IgnorePatterns []string `yaml:"ignore,omitempty"`

	// NodeArgs are extra node arguments, e.g. "--import=tsx".
	NodeArgs []string `yaml:"nodeArgs,omitempty"`

	// Classifier selects the value classifier: typeof or detailed.
	Classifier string `yaml:"classifier,omitempty"`
}

// File represents the structure of the .pkgexports configuration file.
type File struct {
	// Packages maps package names (e.g. "@scope/lib") to their settings.
	Packages map[string]PackageConfig `yaml:"packages,omitempty"`

	// Defaults applies to every package unless overridden in Packages.
	Defaults PackageConfig `yaml:"defaults,omitempty"`
}

// GetPackageConfig returns the configuration for a package, merging its
// settings over the defaults.
func (cf *File) GetPackageConfig(name string) PackageConfig {
	result := cf.Defaults

	pc, ok := cf.Packages[name]
	if !ok {
		return result
	}
	if pc.ImportMode != "" {
		result.ImportMode = pc.ImportMode
	}
	if pc.Sequence != "" {
		result.Sequence = pc.Sequence
	}
	if len(pc.Conditions) > 0 {
		result.Conditions = pc.Conditions
	}
	if len(pc.IgnorePatterns) > 0 {
		result.IgnorePatterns = pc.IgnorePatterns
	}
	if len(pc.NodeArgs) > 0 {
		result.NodeArgs = pc.NodeArgs
	}
	if pc.Classifier != "" {
		result.Classifier = pc.Classifier
	}
	return result
}
