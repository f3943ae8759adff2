// File: builder.go
// Role: Mutable construction of a road network (AddNode/AddEdge) and Build().
// Determinism:
//   - Parallel edges keep their insertion order; Build picks the first
//     minimum-length edge per ordered pair.
// Concurrency:
//   - Builder methods are serialized by mu; the built Graph shares nothing with the Builder.

package core

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/paulmach/orb"
)

// Builder accumulates nodes and edges and produces an immutable Graph.
//
// Loaders own a Builder; searches only ever see the *Graph returned by Build.
type Builder struct {
	mu sync.Mutex

	directed   bool // default directedness
	allowMixed bool // allow per-edge overrides

	nodes map[int64]Node
	edges []Edge // insertion order
}

// NewBuilder creates an empty Builder. By default edges are two-way.
// Complexity: O(1).
func NewBuilder(opts ...GraphOption) *Builder {
	b := &Builder{nodes: make(map[int64]Node)}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// AddNode registers a node. Re-adding an identical node is a no-op;
// re-adding an id with different coordinates returns ErrDuplicateNode.
// Complexity: O(1).
func (b *Builder) AddNode(id int64, lat, lon float64) error {
	if !validCoordinate(lat, lon) {
		return fmt.Errorf("%w: node %d lat=%v lon=%v", ErrBadCoordinate, id, lat, lon)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.nodes[id]; ok {
		if prev.Lat != lat || prev.Lon != lon {
			return fmt.Errorf("%w: %d", ErrDuplicateNode, id)
		}
		return nil
	}
	b.nodes[id] = Node{ID: id, Lat: lat, Lon: lon}

	return nil
}

// HasNode reports whether id was added.
func (b *Builder) HasNode(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.nodes[id]

	return ok
}

// AddEdge appends a road segment from→to with the given length in meters.
//
// Steps:
//  1. Validate length (finite, ≥ 0).
//  2. Apply options; a direction override without mixed mode ⇒ ErrMixedEdgesNotAllowed.
//  3. Both endpoints must already exist (ErrNodeNotFound).
//  4. Append to the edge catalog; mirroring happens at Build time.
//
// Complexity: O(1) amortized.
func (b *Builder) AddEdge(from, to int64, length float64, opts ...EdgeOption) error {
	// 1) Length must be a usable cost.
	if math.IsNaN(length) || math.IsInf(length, 0) || length < 0 {
		return fmt.Errorf("%w: edge %d→%d length=%v", ErrBadLength, from, to, length)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// 2) Options.
	e := Edge{From: from, To: to, Length: length, Directed: b.directed}
	var override bool
	for _, opt := range opts {
		opt(&e, &override)
	}
	if override && !b.allowMixed {
		return ErrMixedEdgesNotAllowed
	}

	// 3) Endpoints.
	if _, ok := b.nodes[from]; !ok {
		return fmt.Errorf("%w: edge %d→%d missing %d", ErrNodeNotFound, from, to, from)
	}
	if _, ok := b.nodes[to]; !ok {
		return fmt.Errorf("%w: edge %d→%d missing %d", ErrNodeNotFound, from, to, to)
	}

	// 4) Catalog.
	b.edges = append(b.edges, e)

	return nil
}

// NodeCount returns the number of nodes added so far.
func (b *Builder) NodeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.nodes)
}

// Build freezes the current nodes and edges into an immutable Graph.
// The Builder stays usable; later additions do not affect the returned Graph.
//
// Every undirected edge contributes two arcs; the mirror arc carries the
// reversed geometry so points always run from the arc's tail to its head.
//
// Complexity: O(V log V + E log E).
func (b *Builder) Build() *Graph {
	b.mu.Lock()
	defer b.mu.Unlock()

	g := &Graph{
		directed: b.directed,
		nodes:    make(map[int64]Node, len(b.nodes)),
		arcs:     make(map[int64]map[int64]*arcBucket, len(b.nodes)),
		succ:     make(map[int64][]int64, len(b.nodes)),
		pred:     make(map[int64][]int64, len(b.nodes)),
	}
	for id, n := range b.nodes {
		g.nodes[id] = n
	}

	var e Edge
	for _, e = range b.edges {
		g.addArc(e.From, e.To, e.Length, e.Geometry)
		if !e.Directed && e.From != e.To {
			var mirror orb.LineString
			if len(e.Geometry) > 0 {
				mirror = e.Geometry.Clone()
				mirror.Reverse()
			}
			g.addArc(e.To, e.From, e.Length, mirror)
		}
	}
	g.edgeCount = len(b.edges)

	// Sorted adjacency gives searches a deterministic neighbor order.
	for id := range g.succ {
		sort.Slice(g.succ[id], func(i, j int) bool { return g.succ[id][i] < g.succ[id][j] })
	}
	for id := range g.pred {
		sort.Slice(g.pred[id], func(i, j int) bool { return g.pred[id][i] < g.pred[id][j] })
	}

	return g
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
