// Package log provides logging with automatic credential redaction.
//
// Crawling authenticated sites puts credentials in two log-visible places:
// extra request headers from the config file and userinfo embedded in
// discovered URLs. RedactHandler wraps any slog.Handler and masks both
// before the record is written, so callers can log freely without auditing
// every attribute.
package log
