// Package model defines the data types shared across rgetlinks packages.
//
// The central type is LinkRecord, one discovered hyperlink annotated with the
// traversal depth at which it was first seen. CrawlResult bundles the full
// emission sequence of one run together with fetch statistics for reporting.
//
// Design decision: model is a leaf package with no internal dependencies so
// that the crawler, store, and report packages can all share these types
// without import cycles.
package model
