// Package testutil provides testing utilities for incdbscan.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random point sets, computing batch
// DBSCAN ground truth, and comparing labelings.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(200, 2, 10) // 200 2-D points in [0,10)²
//
// # Ground Truth
//
//	want := testutil.BatchDBSCAN(points, eps, minPts, 2)
//
// # Comparing Labelings
//
//	testutil.IsomorphicLabels(got, want)       // partition equality
//	testutil.CheckClustering(points, got, ...) // validity, border-ambiguity tolerant
package testutil
