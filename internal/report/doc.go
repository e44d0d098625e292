// Package report renders traversal results.
//
// Two writers exist with very different contracts. PlainWriter produces the
// indented link listing that is the tool's primary output and must stay
// byte-stable for scripts that parse it. MarkdownWriter produces an optional
// human-facing summary written to a file, where layout can evolve freely.
package report
