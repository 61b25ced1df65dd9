package incdbscan

import (
	"slices"

	"github.com/hupe1980/incdbscan/index"
	"github.com/hupe1980/incdbscan/internal/graph"
	"github.com/hupe1980/incdbscan/internal/queue"
	"github.com/hupe1980/incdbscan/labels"
)

// object is the per-point record. neighborCount is a cached scalar: the sum
// of duplicate counts over all live ids within epsilon, inclusive of the
// object's own count. The neighbor relation itself lives only in the graph.
type object struct {
	id            uint64
	coords        []float64
	count         uint32
	neighborCount uint32
}

// objects wires the four stores every update mutates: the per-id records,
// the neighbor graph, the spatial index, and the label registry. It owns
// the neighbor-count bookkeeping; is_core is derived, never stored.
type objects struct {
	byID    map[uint64]*object
	graph   *graph.Graph
	spatial index.Index
	labels  *labels.Registry
	minPts  uint32
	nextID  uint64
}

func newObjects(spatial index.Index, minPts int) *objects {
	return &objects{
		byID:    make(map[uint64]*object),
		graph:   graph.New(),
		spatial: spatial,
		labels:  labels.NewRegistry(),
		minPts:  uint32(minPts),
		nextID:  1,
	}
}

func (o *objects) isCore(id uint64) bool {
	obj := o.byID[id]
	return obj != nil && obj.neighborCount >= o.minPts
}

func (o *objects) neighborCountOf(id uint64) uint32 {
	if obj := o.byID[id]; obj != nil {
		return obj.neighborCount
	}
	return 0
}

// neighborsIncludingSelf returns id followed by its graph neighbors in
// ascending order. The eps-neighborhood of a point always contains the
// point itself.
func (o *objects) neighborsIncludingSelf(id uint64) []uint64 {
	neighbors := o.graph.Neighbors(id)
	result := make([]uint64, 0, len(neighbors)+1)
	result = append(result, id)
	return append(result, neighbors...)
}

// areNeighbors reports whether u and v are within epsilon of each other.
// Every id is a neighbor of itself.
func (o *objects) areNeighbors(u, v uint64) bool {
	return u == v || o.graph.HasEdgeBetween(u, v)
}

// insertObject resolves coords to an id, creating a new object or
// incrementing the duplicate count of an existing one, and updates the
// cached neighbor counts on both sides of every affected edge.
func (o *objects) insertObject(coords []float64) (uint64, error) {
	if id, ok := o.spatial.Lookup(coords); ok {
		obj := o.byID[id]
		obj.count++
		for _, nid := range o.neighborsIncludingSelf(id) {
			o.byID[nid].neighborCount++
		}
		return id, nil
	}

	id := o.nextID
	if err := o.spatial.Insert(id, coords); err != nil {
		return 0, err
	}
	o.nextID++

	obj := &object{id: id, coords: slices.Clone(coords), count: 1}
	o.byID[id] = obj
	o.graph.AddNode(id)
	o.labels.MarkInserted(id)

	results, err := o.spatial.RadiusSearch(coords)
	if err != nil {
		return 0, err
	}
	// The scan includes the new point itself; the self hit contributes the
	// object's own count to its neighborCount.
	for _, res := range results {
		o.byID[res.ID].neighborCount += obj.count
		if res.ID != id {
			obj.neighborCount += o.byID[res.ID].count
			o.graph.SetEdge(id, res.ID)
		}
	}

	return id, nil
}

// deletedObjectInfo snapshots the state around a deleted id. Split
// detection and border reassignment read neighbor data after the node is
// gone, so the neighbor set and core status are captured up front.
type deletedObjectInfo struct {
	id           uint64
	neighbors    []uint64 // including the id itself
	wasCore      bool
	fullyRemoved bool
}

// deleteObject decrements the duplicate count of id, updates the cached
// neighbor counts, and removes the object entirely when its last duplicate
// is gone.
func (o *objects) deleteObject(id uint64) deletedObjectInfo {
	obj := o.byID[id]
	obj.count--

	info := deletedObjectInfo{
		id:           id,
		neighbors:    o.neighborsIncludingSelf(id),
		wasCore:      obj.neighborCount >= o.minPts,
		fullyRemoved: obj.count == 0,
	}

	for _, nid := range info.neighbors {
		o.byID[nid].neighborCount--
	}

	if info.fullyRemoved {
		o.graph.RemoveNode(id)
		o.spatial.Remove(id)
		o.labels.Drop(id)
		delete(o.byID, id)
	}

	return info
}

// connectedComponentsWithin partitions ids into components of the graph
// induced by ids: traversal never leaves the given set. Components are
// returned sorted by their smallest member, each sorted ascending.
func (o *objects) connectedComponentsWithin(ids map[uint64]struct{}) [][]uint64 {
	ordered := sortedIDs(ids)

	visited := make(map[uint64]struct{}, len(ids))
	var components [][]uint64

	for _, start := range ordered {
		if _, ok := visited[start]; ok {
			continue
		}

		component := []uint64{start}
		visited[start] = struct{}{}

		q := queue.NewFIFO(len(ids))
		q.Push(start)
		for {
			current, ok := q.Pop()
			if !ok {
				break
			}
			for _, nid := range o.graph.Neighbors(current) {
				if _, member := ids[nid]; !member {
					continue
				}
				if _, seen := visited[nid]; seen {
					continue
				}
				visited[nid] = struct{}{}
				component = append(component, nid)
				q.Push(nid)
			}
		}

		slices.Sort(component)
		components = append(components, component)
	}

	return components
}

func sortedIDs(ids map[uint64]struct{}) []uint64 {
	ordered := make([]uint64, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	slices.Sort(ordered)
	return ordered
}
