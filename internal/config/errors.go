package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoStartURL is returned when no start URL is given. The CLI treats
	// a missing positional argument as a request for usage help, so this
	// error surfaces only on programmatic misuse.
	ErrNoStartURL = errors.New("no start URL specified")

	// ErrInvalidStartURL is returned when the start URL cannot be parsed or
	// lacks a scheme or host. The traversal needs an absolute URL as its
	// resolution root.
	ErrInvalidStartURL = errors.New("invalid start URL: must be absolute with scheme and host")

	// ErrInvalidDepth is returned when the depth bound is negative.
	// Use 0 to emit only the start URL.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// At least one worker is needed to fetch anything.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrConflictingProxies is returned when both --proxy and --tor are
	// specified. The embedded Tor daemon provides its own SOCKS5 proxy.
	ErrConflictingProxies = errors.New("conflicting proxies: --proxy and --tor cannot be used together")
)
