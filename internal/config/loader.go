package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".rgetlinks"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk configuration format.
//
// All fields are optional; absent fields leave the corresponding Config
// value untouched. Numeric fields use pointers so that an explicit zero in
// the file can be told apart from an absent key.
type File struct {
	// Depth is the traversal depth bound.
	Depth *int `yaml:"depth"`

	// Timeout is the per-request timeout in Go duration syntax, e.g. "45s".
	Timeout string `yaml:"timeout"`

	// Workers is the concurrent fetch limit.
	Workers *int `yaml:"workers"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// MaxBodySize is the response body read limit in bytes.
	MaxBodySize *int64 `yaml:"max_body_size"`

	// Headers are extra request headers applied to every request.
	Headers map[string]string `yaml:"headers"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cf, nil
}

// Apply copies the file's present fields onto c. It returns an error only
// when a present field cannot be interpreted, such as a malformed timeout.
func (f *File) Apply(c *Config) error {
	if f.Depth != nil {
		c.Depth = *f.Depth
	}

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout %q in config file: %w", f.Timeout, err)
		}
		c.Timeout = d
	}

	if f.Workers != nil {
		c.Workers = *f.Workers
	}

	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}

	if f.MaxBodySize != nil {
		c.MaxBodySize = *f.MaxBodySize
	}

	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for name, value := range f.Headers {
			c.Headers[name] = value
		}
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .rgetlinks in the current directory
// 3. Look for .rgetlinks in the XDG config directory
// 4. Look for .rgetlinks in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
