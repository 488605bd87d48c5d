package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner imports a module specifier and lists its exported values.
type Runner interface {
	// Import loads specifier with dir as the working directory.
	Import(ctx context.Context, dir, specifier string) ([]Value, error)
}

const (
	// DefaultNodePath is the node executable looked up on PATH.
	DefaultNodePath = "node"

	// specifierEnv carries the specifier into the inspection script.
	specifierEnv = "PKGEXPORTS_SPECIFIER"

	// resultMarker prefixes the line holding the JSON listing, so output
	// printed by the module itself is ignored.
	resultMarker = "__PKGEXPORTS_RESULT__"
)

// inspectScript is evaluated as an ES module. It imports the specifier and
// prints one descriptor per exported name, then exits without waiting for
// handles the module may have left open.
var inspectScript = `
const specifier = process.env.` + specifierEnv + `;
const mod = await import(specifier);
const out = [];
for (const name of Object.keys(mod)) {
  const value = mod[name];
  let ctor = '';
  try {
    if (value !== null && value !== undefined && typeof value.constructor === 'function') {
      ctor = String(value.constructor.name);
    }
  } catch {}
  out.push({ name, type: typeof value, null: value === null, array: Array.isArray(value), constructor: ctor });
}
process.stdout.write('\n` + resultMarker + `' + JSON.stringify(out) + '\n', () => process.exit(0));
`

// NodeRunner imports modules by starting a node process per specifier.
//
// Design decision: one process per specifier, not a long-lived worker.
// Modules run top-level code and may leave timers or sockets open, so a
// fresh process keeps one entry's side effects out of the next entry's
// listing, and a crash is attributed to the entry that caused it.
type NodeRunner struct {
	// Path is the node executable. Empty means DefaultNodePath.
	Path string

	// Args are extra node arguments placed before the script, e.g.
	// "--import=tsx" to load TypeScript sources.
	Args []string

	// Env is appended to the current environment.
	Env []string

	logger *slog.Logger
}

// NodeRunnerOption configures a NodeRunner.
type NodeRunnerOption func(*NodeRunner)

// WithNodePath sets the node executable.
func WithNodePath(path string) NodeRunnerOption {
	return func(r *NodeRunner) {
		r.Path = path
	}
}

// WithNodeArgs sets extra node arguments.
func WithNodeArgs(args ...string) NodeRunnerOption {
	return func(r *NodeRunner) {
		r.Args = append([]string(nil), args...)
	}
}

// WithNodeEnv adds KEY=VALUE pairs to the child environment.
func WithNodeEnv(env ...string) NodeRunnerOption {
	return func(r *NodeRunner) {
		r.Env = append(r.Env, env...)
	}
}

// WithRunnerLogger sets the logger used for debug output.
func WithRunnerLogger(logger *slog.Logger) NodeRunnerOption {
	return func(r *NodeRunner) {
		r.logger = logger
	}
}

// NewNodeRunner creates a NodeRunner with the given options.
func NewNodeRunner(opts ...NodeRunnerOption) *NodeRunner {
	r := &NodeRunner{Path: DefaultNodePath}
	for _, opt := range opts {
		opt(r)
	}
	if r.Path == "" {
		r.Path = DefaultNodePath
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Import runs node in dir and returns the values exported by specifier.
// A non-zero exit is returned as an error carrying node's stderr.
func (r *NodeRunner) Import(ctx context.Context, dir, specifier string) ([]Value, error) {
	bin, err := exec.LookPath(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNodeNotFound, r.Path, err)
	}

	args := make([]string, 0, len(r.Args)+3)
	args = append(args, r.Args...)
	args = append(args, "--input-type=module", "--eval", inspectScript)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = append(append(os.Environ(), r.Env...), specifierEnv+"="+specifier)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("importing module", "specifier", specifier, "dir", dir)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			return nil, fmt.Errorf("node exited with code %d: %s", exitErr.ExitCode(), msg)
		}
		return nil, fmt.Errorf("node failed: %w", err)
	}

	return parseListing(stdout.Bytes())
}

// parseListing extracts the marked JSON listing from node's stdout.
func parseListing(out []byte) ([]Value, error) {
	idx := bytes.LastIndex(out, []byte(resultMarker))
	if idx < 0 {
		return nil, ErrNoOutput
	}

	line := out[idx+len(resultMarker):]
	if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}

	var values []Value
	if err := json.Unmarshal(line, &values); err != nil {
		return nil, fmt.Errorf("failed to decode export listing: %w", err)
	}
	return values, nil
}
