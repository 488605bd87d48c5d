// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Inspecting a package runs node inside the package directory, and node
// inherits the environment, so npm credentials can show up in error output
// and debug attributes. The SecureHandler masks:
//   - npm registry credentials (_authToken, NPM_TOKEN, NODE_AUTH_TOKEN)
//   - npm and GitHub access tokens detected by pattern
//   - HTTP Authorization values (Bearer, Basic) and JWTs
//   - user:password pairs embedded in registry URLs
//
// Tokens embedded in longer strings and in logged errors are replaced in
// place, so the rest of the message stays readable.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("importing module", "specifier", "vite/module-runner")
package log
