// Package bfs provides hop-count breadth-first search over a road graph.
//
// It answers the questions that do not need edge lengths: which nodes a
// source can reach at all, in how many hops, and how the network splits into
// connected components. Obstacle nodes are never entered, so a search can also
// tell whether a set of closures cuts the network apart.
//
// Neighbors are visited in the order the graph reports them, so Order and
// Parent are reproducible for a given graph.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/roadblock/obstacle"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartVertexNotFound is returned when the start id is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrStartBlocked is returned when the start node is an obstacle.
	ErrStartBlocked = errors.New("bfs: start vertex is an obstacle")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Graph is the adjacency view BFS needs. *core.Graph satisfies it.
type Graph interface {
	Contains(id int64) bool
	Neighbors(id int64) []int64
	InNeighbors(id int64) []int64
}

// Direction selects which arcs a search follows.
type Direction int

const (
	// Forward follows arcs u→v from u: nodes the start can reach.
	Forward Direction = iota
	// Backward follows arcs u→v from v: nodes that can reach the start.
	Backward
	// Both ignores arc direction: the weakly connected component.
	Both
)

// Option configures BFS behavior via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// Options holds parameters and callbacks to customize BFS execution.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when visiting a node. Returning an error aborts the
	// search and propagates that error.
	OnVisit func(id int64, depth int) error

	// MaxDepth, if > 0, stops exploring beyond this many hops.
	MaxDepth int

	// Direction selects forward, backward or undirected traversal.
	Direction Direction

	// Obstacles are never entered.
	Obstacles obstacle.Set

	// FilterNeighbor can skip a hop by returning false.
	FilterNeighbor func(curr, neighbor int64) bool

	err error
}

// DefaultOptions returns forward traversal with no depth limit, no obstacles
// and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		OnVisit:        func(int64, int) error { return nil },
		FilterNeighbor: func(_, _ int64) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback to run on visit.
func WithOnVisit(fn func(id int64, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the search after d hops. d == 0 means no limit.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithDirection selects which arcs are followed.
func WithDirection(d Direction) Option {
	return func(o *Options) {
		if d < Forward || d > Both {
			o.err = fmt.Errorf("%w: unknown direction %d", ErrOptionViolation, d)
			return
		}
		o.Direction = d
	}
}

// WithObstacles excludes the given nodes from the search.
func WithObstacles(s obstacle.Set) Option {
	return func(o *Options) {
		o.Obstacles = s
	}
}

// WithFilterNeighbor skips neighbors when fn returns false.
func WithFilterNeighbor(fn func(curr, neighbor int64) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// Result holds the outcome of a BFS traversal.
type Result struct {
	Order  []int64         // nodes in visit sequence
	Depth  map[int64]int   // hop count from the start
	Parent map[int64]int64 // predecessor in the BFS tree; absent for the start
}

// Reached reports whether id was visited.
func (r *Result) Reached(id int64) bool {
	_, ok := r.Depth[id]
	return ok
}

// PathTo reconstructs the fewest-hop path from the start to dest.
// Returns an error if dest was not reached.
func (r *Result) PathTo(dest int64) ([]int64, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("bfs: no path to %d", dest)
	}
	path := []int64{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
