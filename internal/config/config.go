package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the tool's historical behavior where applicable so that
// existing scripts keep working.
const (
	// DefaultDepth is the traversal depth bound. Depth 2 reaches the links
	// on the start page and the links on each of those pages, which covers
	// the common "what does this page link to, roughly" use case without
	// crawling half the internet.
	DefaultDepth = 2

	// DefaultTimeout is the per-request timeout. 30 seconds is generous for
	// ordinary web servers; slow or unreachable hosts are recorded as fetch
	// failures and the traversal moves on.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers of 1 keeps every fetch sequential. Output is identical
	// at any worker count, so raising this is purely a throughput knob.
	DefaultWorkers = 1

	// DefaultUserAgent identifies rgetlinks in HTTP requests.
	// A descriptive User-Agent lets operators recognize crawler traffic.
	DefaultUserAgent = "rgetlinks/2.0 (+https://github.com/gitpan/rgetlinks)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap when --tor is used.
	DefaultTorStartupTimeout = 3 * time.Minute

	// AppName is the application name used for XDG directory paths.
	AppName = "rgetlinks"
)

// Config holds all configuration options for rgetlinks.
// It is populated from defaults, then an optional config file, then CLI
// flags, and passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// StartURL is the URL the traversal starts from. It is emitted verbatim
	// as the first output line, with no normalization applied.
	StartURL string

	// Depth is the inclusive traversal depth bound. Depth 0 emits only the
	// start URL without any network activity.
	Depth int

	// Timeout is the per-request timeout. A request that exceeds it is a
	// recoverable fetch failure, not a fatal error.
	Timeout time.Duration

	// Workers is the number of pages that may be fetched concurrently.
	// Output order is identical at any worker count.
	Workers int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Headers are extra request headers applied to every request,
	// typically loaded from the config file for authenticated crawls.
	Headers map[string]string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .rgetlinks in the current directory,
	// the XDG config directory, and the user's home directory, in that order.
	ConfigFilePath string

	// ReportFile is the output file path for the Markdown summary report.
	// When empty, no report is written. The link listing on stdout is
	// unaffected either way.
	ReportFile string

	// DBPath is the SQLite database file path for exporting the run's
	// records. When empty, nothing is persisted. The database holds one
	// run: it is truncated on open.
	DBPath string

	// ProxyAddress is a SOCKS5 proxy in "host:port" format.
	// Mutually exclusive with UseTor.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes all requests through
	// it. Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon to bootstrap. Only used when UseTor is true.
	TorStartupTimeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Depth:             DefaultDepth,
		Timeout:           DefaultTimeout,
		Workers:           DefaultWorkers,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// XDGConfigDir returns the XDG config directory for rgetlinks.
// On Linux: ~/.config/rgetlinks
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing the first problem found;
// fixing one error often makes others irrelevant.
//
// This is called once after CLI parsing, before any network activity.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}

	u, err := url.Parse(c.StartURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidStartURL
	}

	if c.Depth < 0 {
		return ErrInvalidDepth
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ProxyAddress != "" && c.UseTor {
		return ErrConflictingProxies
	}

	return nil
}
