// Package config provides configuration loading and validation for dirindex.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (DIRINDEX_ prefix)
//  4. CLI flags
//
// A config file named explicitly must be readable. There is no default
// mount, so a configuration without mounts fails validation.
//
// After loading, mount_defaults supplies the listing policy (allow_exact,
// allow_prefix, allow_all) to every mount that sets none of those fields.
// It is merged with mergo; other fields are rejected in mount_defaults.
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mounts, err := cfg.ResolveMounts()
//
// # Environment Variables
//
// Scalar config keys map to environment variables with DIRINDEX_ prefix:
//   - server.port → DIRINDEX_SERVER_PORT
//   - server.minify → DIRINDEX_SERVER_MINIFY
//   - log.level → DIRINDEX_LOG_LEVEL
//
// Mounts can only be configured in files.
//
// # Configuration Structure
//
// The Config struct contains:
//   - Env: dev or prod, selects the log format
//   - Server: port, host, minify and apps_dir
//   - MountDefaults: listing policy for mounts that set none
//   - Mounts: path, root or app+subdir, allow_exact, allow_prefix, allow_all
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - At least one mount, with unique paths starting with /
//   - Each mount sets exactly one of root or app
//   - Log level must be debug, info, warn, or error
//
// Allow-list rules are checked later, when cmd builds each dirindex.Mount.
package config
