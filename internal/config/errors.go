package config

import "errors"

// Configuration validation errors.
//
// Design decision: package-level sentinel errors rather than ad hoc
// errors.New calls inside Validate, so callers can use errors.Is for
// programmatic handling while the messages stay human-readable.
var (
	// ErrNoSeeds is returned when no seed URL is available from either
	// the CLI arguments or the built-in seed list.
	ErrNoSeeds = errors.New("no seed URLs: pass one or more start URLs as arguments")

	// ErrNoOutput is returned when the output base path is empty.
	ErrNoOutput = errors.New("no output path: --output must not be empty")
)
