package incdbscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLineInHalf(t *testing.T) {
	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(2))

	line := [][]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}}
	require.NoError(t, db.Insert(line))

	before := labelsOf(t, db, line)
	for _, label := range before {
		assert.Equal(t, before[0], label)
	}
	original := before[0]

	found, err := db.Delete([][]float64{{3, 0}})
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, found)

	left := labelsOf(t, db, line[:3])
	right := labelsOf(t, db, line[4:])

	assert.Equal(t, []float64{original, original, original}, left,
		"the surviving side keeps the original label")
	assert.Equal(t, right[0], right[1])
	assert.Equal(t, right[0], right[2])
	assert.NotEqual(t, original, right[0])
	assert.GreaterOrEqual(t, right[0], 0.0)
}

func TestSplitUnevenSidesKeepsLabelOnLarger(t *testing.T) {
	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(2))

	// Two points left of the bridge, four right of it. The left side holds
	// the smallest ids; the larger side must win regardless.
	line := [][]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}}
	require.NoError(t, db.Insert(line))
	original := labelsOf(t, db, line[:1])[0]

	_, err := db.Delete([][]float64{{2, 0}})
	require.NoError(t, err)

	left := labelsOf(t, db, line[:2])
	right := labelsOf(t, db, line[3:])

	assert.Equal(t, right[0], right[1])
	assert.Equal(t, right[0], right[2])
	assert.Equal(t, right[0], right[3])
	assert.Equal(t, original, right[0], "larger fragment keeps the label")
	assert.Equal(t, left[0], left[1])
	assert.NotEqual(t, original, left[0], "smaller fragment is relabeled")
}

func TestThreeWaySplit(t *testing.T) {
	eps := 1.5
	db := newEngine(t, WithEpsilon(eps), WithMinPoints(3))

	arm := func(dx, dy float64) [][]float64 {
		return [][]float64{
			{dx * eps, dy * eps},
			{dx * eps * 2, dy * eps * 2},
			{dx * eps * 3, dy * eps * 3},
		}
	}
	left := arm(-1, 0)
	top := arm(0, 1)
	bottom := arm(0, -1)
	bridge := [][]float64{{0, 0}}

	require.NoError(t, db.Insert(left))
	require.NoError(t, db.Insert(top))
	require.NoError(t, db.Insert(bottom))
	require.NoError(t, db.Insert(bridge))

	all := append(append(append([][]float64{}, left...), top...), bottom...)
	joined := labelsOf(t, db, all)
	for _, label := range joined {
		assert.Equal(t, joined[0], label, "bridge joins all arms")
	}

	_, err := db.Delete(bridge)
	require.NoError(t, err)

	l := labelsOf(t, db, left)
	tp := labelsOf(t, db, top)
	b := labelsOf(t, db, bottom)

	for _, arm := range [][]float64{l, tp, b} {
		assert.Equal(t, arm[0], arm[1])
		assert.Equal(t, arm[0], arm[2])
		assert.GreaterOrEqual(t, arm[0], 0.0, "no arm degrades to noise")
	}
	assert.NotEqual(t, l[0], tp[0])
	assert.NotEqual(t, l[0], b[0])
	assert.NotEqual(t, tp[0], b[0])

	// Exactly one arm kept the pre-split label.
	kept := 0
	for _, label := range []float64{l[0], tp[0], b[0]} {
		if label == joined[0] {
			kept++
		}
	}
	assert.Equal(t, 1, kept)
}

func TestNoSplitWhenBackboneHolds(t *testing.T) {
	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(2))

	// A ring stays connected when one node leaves.
	ring := [][]float64{
		{0, 0}, {1, 0}, {2, 0}, {3, 0},
		{3, 1}, {2, 1}, {1, 1}, {0, 1},
	}
	require.NoError(t, db.Insert(ring))

	before := labelsOf(t, db, ring)
	for _, label := range before {
		assert.Equal(t, before[0], label)
	}

	_, err := db.Delete([][]float64{{2, 0}})
	require.NoError(t, err)

	rest := append(append([][]float64{}, ring[:2]...), ring[3:]...)
	after := labelsOf(t, db, rest)
	for _, label := range after {
		assert.Equal(t, before[0], label, "cluster is intact, label unchanged")
	}
}

func TestNoSplitWithDistantSeedsInIntactCluster(t *testing.T) {
	db := newEngine(t, WithEpsilon(1.5), WithMinPoints(2))

	// Deleting the hub leaves update seeds at {0,0}, {1,1} and {2,0}.
	// {0,0} and {2,0} are not neighbors of each other but stay connected
	// through {1,1}. The traversal must recognize the single component and
	// split nothing.
	rest := [][]float64{{0, 0}, {1, 1}, {2, 0}}
	hub := [][]float64{{1, 0}}
	require.NoError(t, db.Insert(rest))
	require.NoError(t, db.Insert(hub))

	before := labelsOf(t, db, rest)
	for _, label := range before {
		assert.Equal(t, before[0], label)
	}

	_, err := db.Delete(hub)
	require.NoError(t, err)

	after := labelsOf(t, db, rest)
	for _, label := range after {
		assert.Equal(t, before[0], label, "no fragment may be split off an intact cluster")
	}
}

func TestSplitDetectionInternals(t *testing.T) {
	t.Run("PairwiseAdjacentSeedsShortCircuit", func(t *testing.T) {
		db := newEngine(t, WithEpsilon(1.5), WithMinPoints(2))
		require.NoError(t, db.Insert([][]float64{{0, 0}, {1, 0}, {0, 1}}))

		o := db.objects
		id1, _ := o.spatial.Lookup([]float64{0, 0})
		id2, _ := o.spatial.Lookup([]float64{1, 0})

		assert.Nil(t, o.componentsToSplitAway([]uint64{id1, id2}))
		assert.Nil(t, o.componentsToSplitAway([]uint64{id1}))
	})

	t.Run("DetachedComponentsAreDisjointAndSorted", func(t *testing.T) {
		db := newEngine(t, WithEpsilon(1.5), WithMinPoints(2))
		// Three separate pairs that once belonged to one cluster cannot
		// arise through the public API without a deletion, so drive the
		// finder directly on a graph with three islands.
		require.NoError(t, db.Insert([][]float64{
			{0, 0}, {1, 0},
			{10, 0}, {11, 0},
			{20, 0}, {21, 0},
		}))

		o := db.objects
		var seeds []uint64
		for _, coords := range [][]float64{{0, 0}, {10, 0}, {20, 0}} {
			id, ok := o.spatial.Lookup(coords)
			require.True(t, ok)
			seeds = append(seeds, id)
		}

		detached := o.findDetachedComponents(seeds)
		require.Len(t, detached, 2, "the surviving island is not returned")

		assert.Less(t, detached[0][0], detached[1][0], "components ordered by smallest member")

		seen := make(map[uint64]bool)
		for _, component := range detached {
			require.NotEmpty(t, component)
			assert.IsIncreasing(t, component)
			for _, id := range component {
				assert.False(t, seen[id])
				seen[id] = true
			}
		}
	})
}
