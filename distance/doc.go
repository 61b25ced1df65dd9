// Package distance provides the Minkowski distance family used for
// eps-neighborhood queries.
//
// All functions operate on float64 coordinate vectors. The hot path never
// takes a root: radius checks compare reduced distances (squared for p=2,
// |Δ|^p sums for other finite p) against a precomputed reduced threshold.
//
// # Usage
//
//	m, err := distance.New(2)
//	within := m.Reduced(a, b) <= m.ReducedThreshold(eps)
//	d := m.Distance(a, b)
package distance
