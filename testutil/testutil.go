package testutil

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hupe1980/incdbscan/distance"
)

// RNG encapsulates a seeded random number generator for reproducible test
// data.
type RNG struct {
	rand *rand.Rand
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed))}
}

// UniformPoints returns n points of the given dimensionality with
// coordinates drawn uniformly from [0, scale).
func (r *RNG) UniformPoints(n, dims int, scale float64) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		row := make([]float64, dims)
		for j := range row {
			row[j] = r.rand.Float64() * scale
		}
		points[i] = row
	}
	return points
}

// GaussianBlobs returns n points drawn from blobs centered at the given
// centers with the given standard deviation, cycling through centers.
func (r *RNG) GaussianBlobs(n int, centers [][]float64, stddev float64) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		center := centers[i%len(centers)]
		row := make([]float64, len(center))
		for j := range row {
			row[j] = center[j] + r.rand.NormFloat64()*stddev
		}
		points[i] = row
	}
	return points
}

// Shuffle permutes points in place.
func (r *RNG) Shuffle(points [][]float64) {
	r.rand.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
}

// BatchDBSCAN computes ground-truth DBSCAN labels for points by brute
// force: labels are >= 0 for clusters and -1 for noise. Duplicate rows
// count individually toward neighbor counts, matching the engine's
// duplicate weighting. The expansion is iterative.
func BatchDBSCAN(points [][]float64, eps float64, minPts int, p float64) []int {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	if n == 0 {
		return labels
	}

	metric, err := distance.New(p)
	if err != nil {
		panic(err)
	}
	threshold := metric.ReducedThreshold(eps)

	neighbors := make([][]int, n)
	for i := range points {
		for j := range points {
			if metric.Reduced(points[i], points[j]) <= threshold {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}

	core := make([]bool, n)
	for i := range points {
		core[i] = len(neighbors[i]) >= minPts
	}

	visited := make([]bool, n)
	next := 0
	for i := range points {
		if visited[i] || !core[i] {
			continue
		}

		cluster := next
		next++

		frontier := []int{i}
		visited[i] = true
		labels[i] = cluster
		for len(frontier) > 0 {
			v := frontier[0]
			frontier = frontier[1:]
			for _, w := range neighbors[v] {
				if labels[w] == -1 {
					labels[w] = cluster
				}
				if !visited[w] && core[w] {
					visited[w] = true
					labels[w] = cluster
					frontier = append(frontier, w)
				}
			}
		}
	}

	return labels
}

// IsomorphicLabels reports whether got and want describe the same
// partition: a bijection between label values exists, with noise mapping
// to noise. NaN entries in got never match.
func IsomorphicLabels(got []float64, want []int) bool {
	if len(got) != len(want) {
		return false
	}

	fwd := make(map[float64]int)
	rev := make(map[int]float64)
	for i := range got {
		g, w := got[i], want[i]
		if math.IsNaN(g) {
			return false
		}
		if (g == -1) != (w == -1) {
			return false
		}
		if prev, ok := fwd[g]; ok && prev != w {
			return false
		}
		if prev, ok := rev[w]; ok && prev != g {
			return false
		}
		fwd[g] = w
		rev[w] = g
	}
	return true
}

// CheckClustering verifies that labels is a valid DBSCAN clustering of
// points: cores share a label iff core-connected, borders carry the label
// of one of their core neighbors, and noise is exactly the non-core points
// without core neighbors. Unlike IsomorphicLabels it tolerates the genuine
// ambiguity of border points reachable from several clusters.
func CheckClustering(points [][]float64, labels []float64, eps float64, minPts int, p float64) error {
	n := len(points)
	if len(labels) != n {
		return fmt.Errorf("labels length %d != points length %d", len(labels), n)
	}

	metric, err := distance.New(p)
	if err != nil {
		return err
	}
	threshold := metric.ReducedThreshold(eps)

	neighbors := make([][]int, n)
	for i := range points {
		for j := range points {
			if metric.Reduced(points[i], points[j]) <= threshold {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}
	core := make([]bool, n)
	for i := range points {
		core[i] = len(neighbors[i]) >= minPts
	}

	// Components of the core-connectivity graph.
	component := make([]int, n)
	for i := range component {
		component[i] = -1
	}
	comps := 0
	for i := range points {
		if !core[i] || component[i] != -1 {
			continue
		}
		id := comps
		comps++
		frontier := []int{i}
		component[i] = id
		for len(frontier) > 0 {
			v := frontier[0]
			frontier = frontier[1:]
			for _, w := range neighbors[v] {
				if core[w] && component[w] == -1 {
					component[w] = id
					frontier = append(frontier, w)
				}
			}
		}
	}

	labelOfComponent := make(map[int]float64)
	componentOfLabel := make(map[float64]int)
	for i := range points {
		label := labels[i]
		if math.IsNaN(label) {
			return fmt.Errorf("point %d: NaN label for a live point", i)
		}

		if core[i] {
			if label < 0 {
				return fmt.Errorf("point %d: core point labeled %v", i, label)
			}
			if prev, ok := labelOfComponent[component[i]]; ok && prev != label {
				return fmt.Errorf("point %d: core component %d has labels %v and %v", i, component[i], prev, label)
			}
			if prev, ok := componentOfLabel[label]; ok && prev != component[i] {
				return fmt.Errorf("point %d: label %v spans core components %d and %d", i, label, prev, component[i])
			}
			labelOfComponent[component[i]] = label
			componentOfLabel[label] = component[i]
			continue
		}

		coreLabels := make(map[float64]bool)
		for _, w := range neighbors[i] {
			if core[w] {
				coreLabels[labels[w]] = true
			}
		}
		if len(coreLabels) == 0 {
			if label != -1 {
				return fmt.Errorf("point %d: no core neighbor but labeled %v", i, label)
			}
			continue
		}
		if !coreLabels[label] {
			return fmt.Errorf("point %d: border labeled %v, not the label of any core neighbor", i, label)
		}
	}

	return nil
}
