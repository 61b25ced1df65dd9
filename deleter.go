package incdbscan

import (
	"slices"

	"github.com/hupe1980/incdbscan/labels"
)

// deleteByCoords removes one duplicate of the given coordinates and
// restores batch-DBSCAN labeling. It reports whether the coordinates were
// present.
//
// Removing a duplicate lowers neighbor counts even while the point itself
// stays live, so the ex-core pipeline runs on every delete, not only when
// the last duplicate goes away.
func (o *objects) deleteByCoords(coords []float64) bool {
	id, ok := o.spatial.Lookup(coords)
	if !ok {
		return false
	}

	info := o.deleteObject(id)

	exCores := o.lostCoreProperty(info)
	seeds, nonCoreNeighbors := o.updateSeedsAfterDelete(exCores, info)

	if len(seeds) > 0 {
		o.splitClusters(seeds)
	}

	o.relabelBorders(nonCoreNeighbors)

	return true
}

// lostCoreProperty returns the ids whose core status flipped true → false
// because of this deletion, in ascending order. The deleted id itself is
// included when it was core: its former neighborhood may have lost
// connectivity through it.
func (o *objects) lostCoreProperty(info deletedObjectInfo) []uint64 {
	var exCores []uint64
	for _, nid := range info.neighbors {
		if nid == info.id {
			continue
		}
		if obj := o.byID[nid]; obj != nil && obj.neighborCount == o.minPts-1 {
			exCores = append(exCores, nid)
		}
	}
	if info.wasCore {
		exCores = append(exCores, info.id)
	}
	slices.Sort(exCores)
	return exCores
}

// updateSeedsAfterDelete collects the cores adjacent to any ex-core (the
// points whose cluster connectivity might have broken) and, separately, the
// non-core neighbors of ex-cores (the border-reassignment candidates).
func (o *objects) updateSeedsAfterDelete(exCores []uint64, info deletedObjectInfo) (seeds, nonCore map[uint64]struct{}) {
	seeds = make(map[uint64]struct{})
	nonCore = make(map[uint64]struct{})

	for _, exCoreID := range exCores {
		var neighbors []uint64
		switch {
		case exCoreID == info.id && info.fullyRemoved:
			// The node is gone; use the snapshot taken before removal.
			neighbors = info.neighbors
		case o.byID[exCoreID] != nil:
			neighbors = o.neighborsIncludingSelf(exCoreID)
		default:
			continue
		}

		for _, nid := range neighbors {
			if o.byID[nid] == nil {
				continue
			}
			if o.isCore(nid) {
				seeds[nid] = struct{}{}
			} else {
				nonCore[nid] = struct{}{}
			}
		}
	}

	if info.fullyRemoved {
		delete(seeds, info.id)
		delete(nonCore, info.id)
	}

	return seeds, nonCore
}

// splitClusters runs split detection per cluster label appearing among the
// update seeds and gives each detached component a fresh label.
func (o *objects) splitClusters(seeds map[uint64]struct{}) {
	grouped := make(map[labels.Label][]uint64)
	for _, id := range sortedIDs(seeds) {
		if label, ok := o.labels.Get(id); ok {
			grouped[label] = append(grouped[label], id)
		}
	}

	for _, label := range sortedLabels(grouped) {
		for _, component := range o.componentsToSplitAway(grouped[label]) {
			o.labels.SetMany(component, o.labels.Fresh())
		}
	}
}

// componentsToSplitAway returns the components of the seed set that
// detached from their cluster, sorted by smallest member. The surviving
// component, chosen as findDetachedComponents describes, is not returned:
// it keeps the cluster's label.
func (o *objects) componentsToSplitAway(seedIDs []uint64) [][]uint64 {
	if len(seedIDs) <= 1 {
		return nil
	}

	// If all seeds are pairwise neighbors no connectivity was lost.
	if o.pairwiseNeighbors(seedIDs) {
		return nil
	}

	return o.findDetachedComponents(seedIDs)
}

func (o *objects) pairwiseNeighbors(ids []uint64) bool {
	for i, u := range ids {
		for _, v := range ids[i+1:] {
			if !o.areNeighbors(u, v) {
				return false
			}
		}
	}
	return true
}

// relabelBorders recomputes the label of each candidate from its current
// neighborhood: the label of its first core neighbor in ascending id order,
// or noise if no core neighbor remains. All labels are computed before any
// is applied, so candidates never observe each other's reassignment.
func (o *objects) relabelBorders(candidates map[uint64]struct{}) {
	ordered := sortedIDs(candidates)

	updates := make([]labels.Label, len(ordered))
	for i, id := range ordered {
		updates[i] = labels.Noise
		for _, nid := range o.neighborsIncludingSelf(id) {
			if o.isCore(nid) {
				label, _ := o.labels.Get(nid)
				updates[i] = label
				break
			}
		}
	}

	for i, id := range ordered {
		o.labels.Set(id, updates[i])
	}
}

func sortedLabels(grouped map[labels.Label][]uint64) []labels.Label {
	ordered := make([]labels.Label, 0, len(grouped))
	for label := range grouped {
		ordered = append(ordered, label)
	}
	slices.Sort(ordered)
	return ordered
}
