package incdbscan

import (
	"slices"

	"github.com/hupe1980/incdbscan/internal/queue"
)

// splitGroup is one BFS frontier during split detection, seeded at a single
// update seed and merged with other groups as frontiers touch.
type splitGroup struct {
	frontier *queue.FIFO
	members  []uint64
}

// findDetachedComponents discovers how the seed set decomposes into
// core-connected components after a deletion.
//
// One BFS frontier starts per seed. Frontiers expand one layer at a time in
// round-robin; expansion moves only through core points, with non-core
// neighbors claimed as a final border step but never expanded. Two frontiers
// that touch at a core point belong to one component and merge. A frontier
// that runs dry has fully explored a detached component. Traversal stops as
// soon as at most one frontier is still expanding, so a large surviving
// fragment is never walked to completion.
//
// The surviving component — the still-expanding frontier, or among fully
// explored ones the largest, ties broken toward the one holding the
// smallest id — keeps the cluster label and is not returned. Everything
// else is returned for relabeling, ordered by smallest member. The
// traversal is iterative; all state lives in heap-allocated queues.
func (o *objects) findDetachedComponents(seedIDs []uint64) [][]uint64 {
	seeds := slices.Clone(seedIDs)
	slices.Sort(seeds)

	groups := make([]*splitGroup, len(seeds))
	parent := make([]int, len(seeds))
	owner := make(map[uint64]int, len(seeds))

	for i, seed := range seeds {
		g := &splitGroup{frontier: queue.NewFIFO(4), members: []uint64{seed}}
		g.frontier.Push(seed)
		groups[i] = g
		parent[i] = i
		owner[seed] = i
	}

	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	union := func(a, b int) {
		// The lower-indexed group survives a merge.
		if a > b {
			a, b = b, a
		}
		parent[b] = a
		groups[a].members = append(groups[a].members, groups[b].members...)
		for {
			id, ok := groups[b].frontier.Pop()
			if !ok {
				break
			}
			groups[a].frontier.Push(id)
		}
	}

	for {
		expanding := 0
		for i := range groups {
			if find(i) == i && groups[i].frontier.Len() > 0 {
				expanding++
			}
		}
		if expanding <= 1 {
			break
		}

		for i := range groups {
			if find(i) != i {
				continue
			}
			layer := groups[i].frontier.Len()
			for range layer {
				v, ok := groups[i].frontier.Pop()
				if !ok {
					break // merged away mid-layer
				}
				if !o.isCore(v) {
					continue
				}
				for _, nid := range o.graph.Neighbors(v) {
					root := find(i)
					claimedBy, claimed := owner[nid]
					if !claimed {
						owner[nid] = root
						groups[root].members = append(groups[root].members, nid)
						groups[root].frontier.Push(nid)
						continue
					}
					if other := find(claimedBy); other != root && o.isCore(nid) {
						union(root, other)
					}
				}
			}
		}
	}

	return o.collectDetached(groups, parent)
}

// collectDetached picks the surviving component and returns the rest.
func (o *objects) collectDetached(groups []*splitGroup, parent []int) [][]uint64 {
	find := func(i int) int {
		for parent[i] != i {
			i = parent[i]
		}
		return i
	}

	var roots []int
	for i := range groups {
		if find(i) == i {
			roots = append(roots, i)
		}
	}
	if len(roots) <= 1 {
		return nil
	}

	survivor := -1
	for _, r := range roots {
		if groups[r].frontier.Len() > 0 {
			survivor = r
			break
		}
	}
	if survivor == -1 {
		// Every component was fully explored: the largest keeps the label,
		// ties broken toward the component holding the smallest id.
		for _, r := range roots {
			if survivor == -1 {
				survivor = r
				continue
			}
			switch {
			case len(groups[r].members) > len(groups[survivor].members):
				survivor = r
			case len(groups[r].members) == len(groups[survivor].members) &&
				slices.Min(groups[r].members) < slices.Min(groups[survivor].members):
				survivor = r
			}
		}
	}

	var detached [][]uint64
	for _, r := range roots {
		if r == survivor {
			continue
		}
		component := slices.Clone(groups[r].members)
		slices.Sort(component)
		detached = append(detached, component)
	}
	slices.SortFunc(detached, func(a, b []uint64) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		default:
			return 0
		}
	})
	return detached
}
