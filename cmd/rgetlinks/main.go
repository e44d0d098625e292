// Package main provides the entry point for the rgetlinks CLI.
//
// rgetlinks recursively lists the hyperlinks reachable from a start URL,
// one URL per line, indented by discovery depth.
//
// Usage:
//
//	rgetlinks [--depth=N] <start-url>
//
// See --help for all available options.
package main

// main is the entry point for rgetlinks.
func main() {
	Execute()
}
