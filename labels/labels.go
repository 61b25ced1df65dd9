// Package labels maintains the bidirectional mapping between object ids and
// cluster labels, and allocates fresh cluster labels.
//
// Per-label id sets are 64-bit Roaring bitmaps, which keeps bulk renames and
// membership-size queries cheap even for large clusters.
package labels

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Label is a cluster label. Values >= 0 identify clusters; negative values
// are reserved.
type Label int64

const (
	// Unclassified marks an object between insertion and its labeling
	// decision. It never survives a public operation.
	Unclassified Label = -2

	// Noise marks an object that belongs to no cluster.
	Noise Label = -1

	// FirstCluster is the first label the allocator hands out.
	FirstCluster Label = 0
)

// Registry is a bidirectional id <-> label map with a monotonic label
// allocator. Labels are never reused once handed out, so cluster identity
// survives merges and splits.
type Registry struct {
	idsByLabel map[Label]*roaring64.Bitmap
	labelByID  map[uint64]Label
	next       Label
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		idsByLabel: make(map[Label]*roaring64.Bitmap),
		labelByID:  make(map[uint64]Label),
		next:       FirstCluster,
	}
}

// Get returns the label of id, if any.
func (r *Registry) Get(id uint64) (Label, bool) {
	label, ok := r.labelByID[id]
	return label, ok
}

// Set assigns label to id, detaching it from its previous label first.
func (r *Registry) Set(id uint64, label Label) {
	if prev, ok := r.labelByID[id]; ok {
		if set, ok := r.idsByLabel[prev]; ok {
			set.Remove(id)
			if set.IsEmpty() {
				delete(r.idsByLabel, prev)
			}
		}
	}
	r.labelByID[id] = label
	set, ok := r.idsByLabel[label]
	if !ok {
		set = roaring64.New()
		r.idsByLabel[label] = set
	}
	set.Add(id)
}

// SetMany assigns label to every id in ids.
func (r *Registry) SetMany(ids []uint64, label Label) {
	for _, id := range ids {
		r.Set(id, label)
	}
}

// MarkInserted registers a freshly created object as Unclassified.
func (r *Registry) MarkInserted(id uint64) {
	r.Set(id, Unclassified)
}

// Drop removes id from the registry entirely.
func (r *Registry) Drop(id uint64) {
	label, ok := r.labelByID[id]
	if !ok {
		return
	}
	delete(r.labelByID, id)
	if set, ok := r.idsByLabel[label]; ok {
		set.Remove(id)
		if set.IsEmpty() {
			delete(r.idsByLabel, label)
		}
	}
}

// Fresh returns a never-before-used cluster label.
func (r *Registry) Fresh() Label {
	label := r.next
	r.next++
	return label
}

// IDsWith returns the set of ids currently bearing label. The returned
// bitmap is owned by the registry and must not be modified; it is valid
// until the next mutation.
func (r *Registry) IDsWith(label Label) *roaring64.Bitmap {
	if set, ok := r.idsByLabel[label]; ok {
		return set
	}
	return roaring64.New()
}

// Count returns the number of ids currently bearing label.
func (r *Registry) Count(label Label) uint64 {
	if set, ok := r.idsByLabel[label]; ok {
		return set.GetCardinality()
	}
	return 0
}

// ChangeLabels renames every id bearing from to to.
func (r *Registry) ChangeLabels(from, to Label) {
	if from == to {
		return
	}
	set, ok := r.idsByLabel[from]
	if !ok {
		return
	}
	delete(r.idsByLabel, from)

	it := set.Iterator()
	for it.HasNext() {
		r.labelByID[it.Next()] = to
	}

	if dst, ok := r.idsByLabel[to]; ok {
		dst.Or(set)
	} else {
		r.idsByLabel[to] = set
	}
}
