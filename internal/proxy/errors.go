package proxy

import "errors"

// Proxy configuration errors.
//
// Design decision: We use package-level sentinel errors so the CLI can
// distinguish a misconfigured proxy (user error, print usage-style message)
// from a proxy that fails at runtime (environment error).
var (
	// ErrInvalidProxyAddress is returned when the proxy address format is
	// invalid. Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrTorNotRunning is returned when an operation needs the embedded Tor
	// daemon but it has not been started or has already been stopped.
	ErrTorNotRunning = errors.New("embedded Tor daemon is not running")
)
