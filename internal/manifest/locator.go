package manifest

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the canonical manifest file name.
const FileName = "package.json"

// Find searches dir and each ancestor of dir for package.json and returns the
// absolute path of the first one found. An empty dir means the current
// working directory.
//
// If no ancestor contains the file, the returned error wraps
// ErrManifestNotFound.
func Find(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for current := abs; ; {
		candidate := filepath.Join(current, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w (searched upward from %s)", ErrManifestNotFound, abs)
		}
		current = parent
	}
}
