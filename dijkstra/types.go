// Package dijkstra defines core types and configuration options
// for single-source Dijkstra over the road network.
//
// Dijkstra is the exhaustive, heuristic-free reference search of this module:
// it settles every reachable node in order of increasing distance, so its
// distances are exact. The bidirectional A* router stops at first contact and
// may bias away from obstacles; comparing against Dijkstra measures how far
// a returned route is from optimal.
//
// Complexity:
//
//	– Time:  O((V + E) log V)   where V = |nodes|, E = |arcs|
//	– Space: O(V + E)           distance/predecessor maps and lazy heap
//
// Options:
//
//	– ReturnPath:       if true, return the predecessor map for path reconstruction.
//	– MaxDistance:      optional cap in meters; nodes beyond it are not explored.
//	– InfEdgeThreshold: arcs with length >= this threshold are treated as impassable.
//	– Obstacles:        nodes that are neither entered nor expanded.
//
// Errors (sentinel):
//
//	– ErrNilGraph        if the provided graph is nil.
//	– ErrNodeNotFound    if the source node does not exist in the graph.
//	– ErrBadMaxDistance  if MaxDistance < 0.
//	– ErrBadInfThreshold if InfEdgeThreshold <= 0.
//
// Example usage:
//
//	dist, prev, err := dijkstra.Dijkstra(g, src, dijkstra.WithReturnPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	path, ok := dijkstra.PathTo(prev, src, dst)
package dijkstra

import (
	"errors"
	"math"

	"github.com/katalvlaran/roadblock/obstacle"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrNodeNotFound indicates that the specified source node does not exist
	// in the provided graph.
	ErrNodeNotFound = errors.New("dijkstra: source node not found in graph")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value,
	// which is not meaningful for a distance threshold.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates that InfEdgeThreshold was set to zero or negative,
	// which would treat all edges (including zero-length edges) as impassable.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Graph is the read-only view Dijkstra needs. *core.Graph satisfies it.
type Graph interface {
	Contains(id int64) bool
	Neighbors(id int64) []int64
	EdgeCost(u, v int64) float64
}

// Options configures the behavior of the Dijkstra algorithm.
//
// ReturnPath       – if true, return the predecessor map; otherwise prev map is nil.
// MaxDistance      – optional cap on distances to explore (nodes beyond are skipped).
//
//	Must be ≥ 0. Default is +Inf (no cap).
//
// InfEdgeThreshold – treat arcs with length ≥ this threshold as impassable.
//
//	Must be > 0. Default is +Inf (only missing arcs are impassable).
//
// Obstacles        – nodes excluded from the search (the source is never excluded).
type Options struct {
	ReturnPath       bool         // Whether to return the predecessor map
	MaxDistance      float64      // Maximum distance to explore
	InfEdgeThreshold float64      // Length threshold above which arcs are non-traversable
	Obstacles        obstacle.Set // Impassable nodes
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// WithReturnPath enables generation of the predecessor map in the result.
// If false (default), the predecessor map is not returned (prev == nil).
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxDistance sets a maximum distance threshold in meters.
// Nodes whose shortest distance would exceed this value are not explored.
// Panics on negative or NaN input.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		if max < 0 || math.IsNaN(max) {
			// Panic to signal invalid configuration early.
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold defines a length threshold at or above which arcs are
// considered non-traversable. Panics on zero, negative or NaN input.
func WithInfEdgeThreshold(threshold float64) Option {
	return func(o *Options) {
		if threshold <= 0 || math.IsNaN(threshold) {
			panic(ErrBadInfThreshold.Error())
		}
		o.InfEdgeThreshold = threshold
	}
}

// WithObstacles excludes the given nodes from the search.
func WithObstacles(obstacles obstacle.Set) Option {
	return func(o *Options) {
		o.Obstacles = obstacles
	}
}

// DefaultOptions returns an Options struct initialized with sensible defaults.
//
// Defaults:
//   - ReturnPath:       false (predecessor map not returned).
//   - MaxDistance:      +Inf (no distance limit; explore all reachable).
//   - InfEdgeThreshold: +Inf (no arcs treated as impassable by length).
//   - Obstacles:        empty.
func DefaultOptions() Options {
	return Options{
		ReturnPath:       false,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}
