// Package config holds all configuration for quotegrab: crawl behavior
// defaults, the optional configuration file loader, and the selector
// profile registry used to resolve CSS selectors per seed URL.
//
// # Configuration Sources
//
// Configuration flows from three sources, in increasing precedence:
//
//  1. Package defaults (the Default* constants)
//  2. The optional configuration file (.quotegrab, YAML or JSON)
//  3. CLI flags
//
// Out-of-range values are clamped rather than rejected: a timeout of
// 600 seconds becomes 60 seconds, a retry count of 0 becomes 1. An
// unreadable or unparsable configuration file is logged and ignored;
// the run proceeds on defaults. Configuration problems are never fatal.
//
// # Selector Profiles
//
// The registry maps known site base URLs to selector sets tuned for
// those sites. Unknown sites fall back to a generic selector set with
// multiple candidates per field, ordered from most to least specific.
// Additional profiles can be supplied through the configuration file.
package config
