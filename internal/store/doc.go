// Package store persists traversal results to SQLite.
//
// Persistence is an export of one run, not a crawl state: the traversal
// itself never reads from the database, and Open truncates whatever a
// previous run left behind. The schema is two tables, links (one row per
// emitted record, emission order preserved by ascending id) and runs (a
// single summary row), which makes the export trivially queryable with the
// sqlite3 shell.
package store
