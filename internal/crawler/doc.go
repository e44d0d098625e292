// Package crawler implements the link discovery engine of rgetlinks.
//
// # Architecture
//
// Two components compose in a strict call chain:
//
//   - Fetcher: given a URL, returns the absolute hyperlink targets found on
//     that page. It is stateless from the traverser's point of view; one call
//     per visited node.
//   - Traverser: drives a breadth-first, depth-bounded traversal over the
//     implicit web graph, using the Fetcher as its edge-expansion function
//     and a per-run visited set for cycle prevention.
//
// Neither component knows about output formatting or CLI concerns.
//
// # Traversal semantics
//
// The traverser discovers all of a node's children (marking them visited and
// emitting them) before expanding any of them. Because the visited set is
// checked and updated at discovery time rather than expansion time, the
// discovered set and assigned depths match classic BFS even though expansion
// proceeds by recursion. A URL keeps the depth of its first discovery; there
// is no relaxation step when the same URL is reachable through a shorter
// path explored later. The produced structure is a hyperlink spanning tree
// bounded at the configured depth, not a shortest-path tree.
//
// # Failure model
//
// No fetch problem is fatal. Network errors, timeouts, non-2xx responses,
// unsupported content types, and malformed markup all degrade to an empty
// link set for that node; the traversal continues with its remaining
// frontier. The only fatal condition is context cancellation.
package crawler
