// File: graph.go
// Role: Immutable road network snapshot and its read-only query surface.
// Determinism:
//   - Neighbors() / InNeighbors() return unique ids sorted ascending.
//   - Parallel arcs resolve to the first minimum-length arc in insertion order.
// Concurrency:
//   - Graph is never mutated after Build, so every method is safe for
//     concurrent use without locks.

package core

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Graph is a frozen road network. Obtain one from Builder.Build.
//
// Routing packages depend on the small read-only interfaces they declare
// (astar.Graph, route.Graph); *Graph satisfies all of them. A nil *Graph
// reads as an empty network.
type Graph struct {
	directed bool

	nodes map[int64]Node

	// arcs[from][to] holds every parallel arc from→to.
	arcs map[int64]map[int64]*arcBucket

	succ map[int64][]int64 // sorted successor ids
	pred map[int64][]int64 // sorted predecessor ids

	edgeCount int // physical edges as added to the Builder
	arcCount  int // traversable arcs after mirroring
}

// arcBucket keeps all parallel arcs of one ordered pair; best indexes the
// arc that realizes the minimum length.
type arcBucket struct {
	lengths    []float64
	geometries []orb.LineString
	best       int
}

func (g *Graph) addArc(from, to int64, length float64, geometry orb.LineString) {
	row, ok := g.arcs[from]
	if !ok {
		row = make(map[int64]*arcBucket)
		g.arcs[from] = row
	}
	bucket, ok := row[to]
	if !ok {
		bucket = &arcBucket{}
		row[to] = bucket
		g.succ[from] = append(g.succ[from], to)
		g.pred[to] = append(g.pred[to], from)
	}
	bucket.lengths = append(bucket.lengths, length)
	bucket.geometries = append(bucket.geometries, geometry)
	// Strict < keeps the first arc on ties.
	if length < bucket.lengths[bucket.best] {
		bucket.best = len(bucket.lengths) - 1
	}
	g.arcCount++
}

// arc returns the parallel-arc bucket u→v, or nil.
func (g *Graph) arc(u, v int64) *arcBucket {
	if g == nil {
		return nil
	}

	return g.arcs[u][v]
}

// Directed reports the default edge directedness the graph was built with.
func (g *Graph) Directed() bool { return g != nil && g.directed }

// Contains reports whether id is a node of the graph. O(1).
func (g *Graph) Contains(id int64) bool {
	if g == nil {
		return false
	}
	_, ok := g.nodes[id]

	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id int64) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	n, ok := g.nodes[id]

	return n, ok
}

// Coordinates returns (lat, lon) of id; ok is false for unknown ids. O(1).
func (g *Graph) Coordinates(id int64) (lat, lon float64, ok bool) {
	if g == nil {
		return 0, 0, false
	}
	n, ok := g.nodes[id]
	if !ok {
		return 0, 0, false
	}

	return n.Lat, n.Lon, true
}

// Neighbors returns the ids reachable from id over one arc, ascending.
// The returned slice is shared; callers must not modify it.
// Unknown ids yield nil. O(1).
func (g *Graph) Neighbors(id int64) []int64 {
	if g == nil {
		return nil
	}

	return g.succ[id]
}

// InNeighbors returns the ids with an arc into id, ascending.
// The returned slice is shared; callers must not modify it.
func (g *Graph) InNeighbors(id int64) []int64 {
	if g == nil {
		return nil
	}

	return g.pred[id]
}

// EdgeCost returns the minimum length over all parallel arcs u→v,
// or +Inf when no such arc exists. O(1).
func (g *Graph) EdgeCost(u, v int64) float64 {
	bucket := g.arc(u, v)
	if bucket == nil {
		return math.Inf(1)
	}

	return bucket.lengths[bucket.best]
}

// EdgeGeometry returns the (lon, lat) shape of the minimum-length arc u→v.
// ok is false when the arc does not exist or is a straight segment.
// The result is a copy and may be modified freely.
func (g *Graph) EdgeGeometry(u, v int64) (orb.LineString, bool) {
	bucket := g.arc(u, v)
	if bucket == nil {
		return nil, false
	}
	ls := bucket.geometries[bucket.best]
	if len(ls) < 2 {
		return nil, false
	}

	return ls.Clone(), true
}

// Multiplicity returns how many parallel arcs run u→v.
func (g *Graph) Multiplicity(u, v int64) int {
	bucket := g.arc(u, v)
	if bucket == nil {
		return 0
	}

	return len(bucket.lengths)
}

// NodeIDs returns all node ids in ascending order. O(V log V).
func (g *Graph) NodeIDs() []int64 {
	if g == nil {
		return nil
	}
	ids := make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Stats is a summary of the graph's size.
type Stats struct {
	Nodes        int // node count
	Edges        int // physical edges as loaded
	Arcs         int // traversable arcs after mirroring
	OrderedPairs int // distinct (from, to) pairs
}

// Stats reports node, edge and arc counts. O(V).
func (g *Graph) Stats() Stats {
	if g == nil {
		return Stats{}
	}
	pairs := 0
	for _, row := range g.arcs {
		pairs += len(row)
	}

	return Stats{
		Nodes:        len(g.nodes),
		Edges:        g.edgeCount,
		Arcs:         g.arcCount,
		OrderedPairs: pairs,
	}
}
