// Package config provides configuration structures and utilities for
// pkgexports. It defines the inspection options, report preferences, the
// snapshot database location, and the .pkgexports file with per-package
// overrides.
package config
