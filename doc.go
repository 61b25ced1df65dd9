// Package incdbscan maintains a DBSCAN clustering of a multidimensional
// point set under streaming insertions and deletions. After every update the
// labeling is exactly what batch DBSCAN would produce on the current live
// set, without recomputing from scratch.
//
// # Quick Start
//
//	db, err := incdbscan.New(
//	    incdbscan.WithEpsilon(1.5),
//	    incdbscan.WithMinPoints(3),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	err = db.Insert([][]float64{{0, 0}, {1, 0}, {0, 1}})
//
//	labels, err := db.GetClusterLabels([][]float64{{0, 0}, {10, 10}})
//	// labels[i] >= 0 is a cluster id, -1 is noise, NaN means not present
//
//	found, err := db.Delete([][]float64{{1, 0}})
//	// found[i] is false where the coordinate was absent; absence is not an error
//
// # Semantics
//
// A point is a core point when the number of points within Epsilon of it
// (counting coordinate duplicates, and itself) reaches MinPoints. Core
// points within Epsilon of each other belong to the same cluster; non-core
// points adopt the label of a neighboring core or are noise.
//
// Cluster identity is stable: labels are allocated monotonically and never
// reused. When clusters merge, the label with the largest membership (ties:
// lowest label) survives. When a deletion splits a cluster, one fragment
// keeps the label and the detached fragments get fresh ones. The fragments
// are explored side by side, one layer at a time: the fragment still growing
// after all others are exhausted keeps the label; if none is, the largest
// does (ties: the one holding the smallest id).
//
// Distances come from the Minkowski family (p >= 1, including +Inf); the
// default p=2 path compares squared distances against Epsilon² so the hot
// path never takes a square root.
//
// # Concurrency
//
// An engine instance is a single-writer structure with no internal locking.
// Callers that share one instance across goroutines must serialize access
// externally.
package incdbscan
