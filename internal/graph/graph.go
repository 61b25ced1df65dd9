// Package graph provides the undirected neighbor graph over live points.
//
// An edge (u,v) exists iff the two points are within eps of each other.
// Node handles are the stable object ids themselves and survive removal of
// other nodes. Self-edges are never stored; coordinate duplicates are
// represented by object counts, not extra nodes.
package graph

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
)

// Graph is the undirected neighbor graph keyed by object id.
type Graph struct {
	g *simple.UndirectedGraph
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{g: simple.NewUndirectedGraph()}
}

// AddNode registers id as a node. The id must not already be present.
func (g *Graph) AddNode(id uint64) {
	g.g.AddNode(simple.Node(int64(id)))
}

// RemoveNode removes id and all its incident edges. Removing an absent id
// is a no-op.
func (g *Graph) RemoveNode(id uint64) {
	g.g.RemoveNode(int64(id))
}

// Has reports whether id is a node.
func (g *Graph) Has(id uint64) bool {
	return g.g.Node(int64(id)) != nil
}

// SetEdge adds the undirected edge (u,v). Both nodes must be present and
// distinct.
func (g *Graph) SetEdge(u, v uint64) {
	g.g.SetEdge(simple.Edge{F: simple.Node(int64(u)), T: simple.Node(int64(v))})
}

// HasEdgeBetween reports whether the edge (u,v) exists.
func (g *Graph) HasEdgeBetween(u, v uint64) bool {
	return g.g.HasEdgeBetween(int64(u), int64(v))
}

// Neighbors returns the ids adjacent to id in ascending order. The slice is
// freshly allocated on each call.
func (g *Graph) Neighbors(id uint64) []uint64 {
	var neighbors []uint64
	it := g.g.From(int64(id))
	for it.Next() {
		neighbors = append(neighbors, uint64(it.Node().ID()))
	}
	slices.Sort(neighbors)
	return neighbors
}

// Degree returns the number of ids adjacent to id.
func (g *Graph) Degree(id uint64) int {
	return g.g.From(int64(id)).Len()
}
