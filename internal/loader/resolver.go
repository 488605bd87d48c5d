package loader

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nao1215/pkgexports/internal/model"
)

// Resolver turns an export entry into an import specifier.
type Resolver interface {
	// Resolve returns the specifier to import for entry.
	Resolve(entry model.ExportEntry) (string, error)

	// Mode returns the import mode this resolver implements.
	Mode() model.ImportMode
}

// SourcePathRewriter maps a build output path to its source path.
type SourcePathRewriter func(dist string) string

// moduleExt matches a trailing .js, .mjs or .cjs extension.
var moduleExt = regexp.MustCompile(`\.[mc]?js$`)

// DefaultSourcePath replaces the first "dist" in the path with "src" and
// strips a trailing module extension, so "./dist/config.mjs" becomes
// "./src/config".
func DefaultSourcePath(dist string) string {
	return moduleExt.ReplaceAllString(strings.Replace(dist, "dist", "src", 1), "")
}

// NewResolver returns the resolver for mode. name is the package name and
// root the directory holding package.json. rewrite is only used by
// ImportModeSrc; nil means DefaultSourcePath.
func NewResolver(mode model.ImportMode, name, root string, rewrite SourcePathRewriter) (Resolver, error) {
	switch mode {
	case model.ImportModePackage:
		return &PackageResolver{Name: name}, nil
	case model.ImportModeDist:
		return &DistResolver{Root: root}, nil
	case model.ImportModeSrc:
		return &SourceResolver{Root: root, Rewrite: rewrite}, nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidImportMode, string(mode))
	}
}

// PackageResolver addresses entries through the package's public name.
type PackageResolver struct {
	Name string
}

// Resolve joins the package name with the export path, e.g.
// ("@scope/lib", "./utils") becomes "@scope/lib/utils".
func (r *PackageResolver) Resolve(entry model.ExportEntry) (string, error) {
	if r.Name == "" {
		return "", fmt.Errorf("package name is required for %s mode", model.ImportModePackage)
	}
	return path.Join(r.Name, entry.ExportPath), nil
}

// Mode implements Resolver.
func (r *PackageResolver) Mode() model.ImportMode {
	return model.ImportModePackage
}

// DistResolver addresses the resolved target file directly.
type DistResolver struct {
	Root string
}

// Resolve returns a file URL for the target relative to Root.
func (r *DistResolver) Resolve(entry model.ExportEntry) (string, error) {
	return FileURL(filepath.Join(r.Root, filepath.FromSlash(entry.TargetPath))), nil
}

// Mode implements Resolver.
func (r *DistResolver) Mode() model.ImportMode {
	return model.ImportModeDist
}

// SourceResolver addresses the source file that the target was built from.
type SourceResolver struct {
	Root    string
	Rewrite SourcePathRewriter
}

// Resolve rewrites the target path and returns a file URL for it.
func (r *SourceResolver) Resolve(entry model.ExportEntry) (string, error) {
	rewrite := r.Rewrite
	if rewrite == nil {
		rewrite = DefaultSourcePath
	}
	src := rewrite(entry.TargetPath)
	if src == "" {
		return "", fmt.Errorf("source path rewriter returned an empty path for %s", entry.TargetPath)
	}
	return FileURL(filepath.Join(r.Root, filepath.FromSlash(src))), nil
}

// Mode implements Resolver.
func (r *SourceResolver) Mode() model.ImportMode {
	return model.ImportModeSrc
}

// FileURL converts an absolute file system path into a file: URL. Windows
// paths with a volume letter become "file:///C:/...".
func FileURL(p string) string {
	return fileURLFromSlash(filepath.ToSlash(p))
}

// fileURLFromSlash builds the URL from a forward-slash path.
func fileURLFromSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
