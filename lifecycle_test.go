package incdbscan

import (
	"math"
	"slices"
	"testing"

	"github.com/hupe1980/incdbscan/distance"
	"github.com/hupe1980/incdbscan/labels"
	"github.com/hupe1980/incdbscan/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the store invariants against a brute-force
// recount of the current live set:
//
//  1. every cached neighborCount equals the recount, duplicates weighted;
//  2. core status follows from the count (definitional, checked via 4);
//  3. the graph has an edge exactly for the pairs within epsilon;
//  4. labels form a valid DBSCAN clustering of the live set;
//  5. no live point is unclassified.
func checkInvariants(t *testing.T, db *IncrementalDBSCAN) {
	t.Helper()

	o := db.objects
	metric, err := distance.New(db.opts.p)
	require.NoError(t, err)
	threshold := metric.ReducedThreshold(db.opts.epsilon)

	type rec struct {
		id     uint64
		coords []float64
	}
	var live []rec
	for id, coords := range o.spatial.All() {
		live = append(live, rec{id: id, coords: slices.Clone(coords)})
	}
	require.Len(t, live, len(o.byID), "spatial index and object store disagree on the live set")

	for _, a := range live {
		obj := o.byID[a.id]
		require.NotNil(t, obj, "id %d live in index but missing from store", a.id)
		require.Equal(t, a.coords, obj.coords, "id %d", a.id)

		var recount uint32
		for _, b := range live {
			if metric.Reduced(a.coords, b.coords) <= threshold {
				recount += o.byID[b.id].count
			}
		}
		assert.Equal(t, recount, obj.neighborCount, "cached neighbor count of id %d", a.id)

		for _, b := range live {
			if a.id == b.id {
				continue
			}
			within := metric.Reduced(a.coords, b.coords) <= threshold
			assert.Equal(t, within, o.graph.HasEdgeBetween(a.id, b.id),
				"edge (%d,%d) disagrees with distance", a.id, b.id)
		}

		label, ok := o.labels.Get(a.id)
		require.True(t, ok, "id %d has no label", a.id)
		assert.NotEqual(t, labels.Unclassified, label, "id %d left unclassified", a.id)
	}

	// Invariants 4 and 5 via the reference checker, duplicates expanded.
	var points [][]float64
	var got []float64
	for _, a := range live {
		label, _ := o.labels.Get(a.id)
		for range o.byID[a.id].count {
			points = append(points, a.coords)
			got = append(got, float64(label))
		}
	}
	require.NoError(t,
		testutil.CheckClustering(points, got, db.opts.epsilon, db.opts.minPoints, db.opts.p))
}

// samePartition reports whether two label sequences describe the same
// partition with noise mapped to noise.
func samePartition(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	want := make([]int, len(b))
	for i, v := range b {
		if math.IsNaN(v) {
			return false
		}
		want[i] = int(v)
	}
	return testutil.IsomorphicLabels(a, want)
}

func TestLawInsertDeleteRoundTrip(t *testing.T) {
	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(3))

	base := [][]float64{
		{0, 0}, {1, 0}, {0, 1},
		{4, 0}, {5, 0}, {4, 1},
		{10, 10},
	}
	require.NoError(t, db.Insert(base))
	before := labelsOf(t, db, base)

	// The bridge merges the two clusters; removing it must restore the
	// partition (labels may be renamed, identity of the partition may not).
	bridge := [][]float64{{2.5, 0}}
	require.NoError(t, db.Insert(bridge))

	found, err := db.Delete(bridge)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, found)

	after := labelsOf(t, db, base)
	assert.True(t, samePartition(after, before), "before %v after %v", before, after)
	checkInvariants(t, db)
}

func TestLawDuplicateInsertDeleteRoundTrip(t *testing.T) {
	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(4))

	base := [][]float64{{0, 0}, {1, 0}, {0.5, 0.5}}
	require.NoError(t, db.Insert(base))
	before := labelsOf(t, db, base)

	const k = 3
	dup := [][]float64{{0.5, 0}}
	for range k {
		require.NoError(t, db.Insert(dup))
	}
	for range k {
		found, err := db.Delete(dup)
		require.NoError(t, err)
		assert.Equal(t, []bool{true}, found)
	}

	after := labelsOf(t, db, base)
	assert.True(t, samePartition(after, before), "before %v after %v", before, after)
	assert.True(t, math.IsNaN(labelsOf(t, db, dup)[0]))
	checkInvariants(t, db)
}

func TestLawOrderIndependence(t *testing.T) {
	points := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {0.5, 0.5},
		{4, 0}, {5, 0}, {4, 1},
		{20, 20},
	}

	forward := newEngine(t, WithEpsilon(1.5), WithMinPoints(3))
	require.NoError(t, forward.Insert(points))

	reversed := newEngine(t, WithEpsilon(1.5), WithMinPoints(3))
	backwards := make([][]float64, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		backwards = append(backwards, points[i])
	}
	require.NoError(t, reversed.Insert(backwards))

	a := labelsOf(t, forward, points)
	b := labelsOf(t, reversed, points)
	assert.True(t, samePartition(a, b), "forward %v reversed %v", a, b)
}

func TestRandomizedLifecycle(t *testing.T) {
	rng := testutil.NewRNG(42)
	centers := [][]float64{{0, 0}, {9, 9}, {0, 9}, {9, 0}}
	points := rng.GaussianBlobs(72, centers, 1.1)
	// Exercise the duplicate paths too.
	points = append(points, points[0], points[1], points[0])
	rng.Shuffle(points)

	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(4))

	for i, p := range points {
		require.NoError(t, db.Insert([][]float64{p}))
		if i%25 == 24 {
			checkInvariants(t, db)
		}
	}
	checkInvariants(t, db)

	// The stream result must match batch DBSCAN on the same rows.
	got, err := db.GetClusterLabels(points)
	require.NoError(t, err)
	require.NoError(t,
		testutil.CheckClustering(points, got, db.Epsilon(), db.MinPoints(), 2))

	// Tear half of it down, invariants must hold throughout.
	rng.Shuffle(points)
	for i, p := range points[:len(points)/2] {
		_, err := db.Delete([][]float64{p})
		require.NoError(t, err)
		if i%25 == 24 {
			checkInvariants(t, db)
		}
	}
	checkInvariants(t, db)

	// And all the way down.
	for _, p := range points[len(points)/2:] {
		_, err := db.Delete([][]float64{p})
		require.NoError(t, err)
	}
	_, err = db.Delete(points)
	require.NoError(t, err)
	assert.Equal(t, 0, db.Len())
	checkInvariants(t, db)
}

func TestRandomizedMatchesBatchDBSCAN(t *testing.T) {
	rng := testutil.NewRNG(7)
	centers := [][]float64{{0, 0}, {7, 0}, {0, 7}}
	points := rng.GaussianBlobs(60, centers, 0.9)

	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(5))
	require.NoError(t, db.Insert(points))

	got, err := db.GetClusterLabels(points)
	require.NoError(t, err)

	want := testutil.BatchDBSCAN(points, 1.5, 5, 2)

	// Core and noise structure must agree exactly; borders may legally
	// differ where several clusters are in reach, so validity is checked
	// instead of label-for-label equality.
	require.NoError(t, testutil.CheckClustering(points, got, 1.5, 5, 2))

	gotNoise := 0
	wantNoise := 0
	for i := range points {
		if got[i] == -1 {
			gotNoise++
		}
		if want[i] == -1 {
			wantNoise++
		}
	}
	assert.Equal(t, wantNoise, gotNoise, "noise sets must coincide")
}
