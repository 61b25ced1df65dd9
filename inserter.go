package incdbscan

import (
	"slices"

	"github.com/hupe1980/incdbscan/labels"
)

// insert adds one point and restores batch-DBSCAN labeling around it.
//
// The update hinges on the set of points whose core status flipped
// false → true because of this insertion: only their neighborhoods can gain
// connectivity. The decision per connected component of the update seeds is
// noise / create / absorb / merge.
func (o *objects) insert(coords []float64) (uint64, error) {
	id, err := o.insertObject(coords)
	if err != nil {
		return 0, err
	}

	newCores, oldCores := o.coreNeighborsByNovelty(id)

	if len(newCores) == 0 {
		// No connectivity change. The inserted point is a border point of
		// an existing core, or noise.
		if len(oldCores) > 0 {
			label, _ := o.labels.Get(oldCores[0])
			o.labels.Set(id, label)
		} else {
			o.labels.Set(id, labels.Noise)
		}
		return id, nil
	}

	seeds := o.updateSeeds(newCores)

	for _, component := range o.connectedComponentsWithin(seeds) {
		effective := o.effectiveLabels(component)

		if len(effective) == 0 {
			// Creation: the component is built from noise and the new point.
			o.labels.SetMany(component, o.labels.Fresh())
		} else {
			// Absorption, or merge if several clusters became connected.
			target := o.mergeTarget(effective)
			o.labels.SetMany(component, target)
			for _, label := range effective {
				o.labels.ChangeLabels(label, target)
			}
		}
	}

	o.labelAroundNewCores(newCores)

	return id, nil
}

// coreNeighborsByNovelty splits the eps-neighborhood of the inserted id
// into cores that just reached minPts because of this insertion and cores
// that already were cores. The inserted id itself always counts as new:
// even a duplicate of an existing core changes connectivity around it.
// Both slices are in ascending id order.
func (o *objects) coreNeighborsByNovelty(insertedID uint64) (newCores, oldCores []uint64) {
	for _, nid := range o.neighborsIncludingSelf(insertedID) {
		switch nc := o.neighborCountOf(nid); {
		case nc == o.minPts:
			newCores = append(newCores, nid)
		case nc > o.minPts:
			if nid == insertedID {
				newCores = append(newCores, nid)
			} else {
				oldCores = append(oldCores, nid)
			}
		}
	}
	slices.Sort(newCores)
	slices.Sort(oldCores)
	return newCores, oldCores
}

// updateSeeds returns every core in or adjacent to the new cores. These are
// the points through which label changes can propagate.
func (o *objects) updateSeeds(newCores []uint64) map[uint64]struct{} {
	seeds := make(map[uint64]struct{})
	for _, coreID := range newCores {
		for _, nid := range o.neighborsIncludingSelf(coreID) {
			if o.isCore(nid) {
				seeds[nid] = struct{}{}
			}
		}
	}
	return seeds
}

// effectiveLabels returns the distinct cluster labels (>= 0) among ids,
// ascending. Noise and unclassified are not cluster labels.
func (o *objects) effectiveLabels(ids []uint64) []labels.Label {
	seen := make(map[labels.Label]struct{})
	for _, id := range ids {
		if label, ok := o.labels.Get(id); ok && label >= labels.FirstCluster {
			seen[label] = struct{}{}
		}
	}

	effective := make([]labels.Label, 0, len(seen))
	for label := range seen {
		effective = append(effective, label)
	}
	slices.Sort(effective)
	return effective
}

// mergeTarget picks the label that survives a merge: largest current
// membership, ties broken by the lowest label value.
func (o *objects) mergeTarget(effective []labels.Label) labels.Label {
	target := effective[0]
	best := o.labels.Count(target)
	for _, label := range effective[1:] {
		if count := o.labels.Count(label); count > best {
			target = label
			best = count
		}
	}
	return target
}

// labelAroundNewCores gives every neighbor of each new core that core's
// label. Border points that neighbor several new cores take the label of
// the first one in ascending id order.
func (o *objects) labelAroundNewCores(newCores []uint64) {
	assigned := make(map[uint64]struct{})
	for _, coreID := range newCores {
		label, _ := o.labels.Get(coreID)
		for _, nid := range o.neighborsIncludingSelf(coreID) {
			if _, done := assigned[nid]; done {
				continue
			}
			assigned[nid] = struct{}{}
			o.labels.Set(nid, label)
		}
	}
}
