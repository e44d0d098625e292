// Package config defines the configuration for rgetlinks and its loading
// rules.
//
// Configuration is layered: NewConfig supplies defaults, an optional
// .rgetlinks YAML file overrides them, and CLI flags the user actually set
// override both. The merged Config is validated once, up front, and then
// passed through the application explicitly; nothing reads configuration
// from global state.
package config
