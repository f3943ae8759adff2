// Package astar defines core types and configuration options for the
// obstacle-aware bidirectional A* search over a road network.
//
// Two frontiers grow at once, one from the source over outgoing arcs and one
// from the destination over incoming arcs, sharing a single priority queue
// ordered by estimated total cost. The search stops at the first node popped
// by one direction that the other direction has already discovered.
//
// Options:
//
//	– Heuristic:     remaining-cost estimate; default heuristic.New(g).
//	– MaxExpansions: cap on queue pops; exceeding it yields OutcomeTruncated.
//	– Ctx:           cancellation; a done context yields OutcomeTruncated.
//	– OnExpand:      hook called before a node's neighbors are relaxed.
//	– OnRelax:       hook called for every improving relaxation.
//
// Errors (sentinel):
//
//	– ErrNilGraph       if the provided graph is nil.
//	– ErrNodeNotFound   if source or destination is not a graph node.
//
// Outcomes that are not errors: OutcomeFound, OutcomeNoPath,
// OutcomeBlockedEndpoint (source or destination is an obstacle) and
// OutcomeTruncated.
//
// Example usage:
//
//	res, err := astar.Search(g, src, dst, obstacle.NewSet(blocked...))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.Found() {
//	    fmt.Println(res.Path, res.Cost)
//	}
package astar

import (
	"context"
	"errors"

	"github.com/katalvlaran/roadblock/heuristic"
	"github.com/katalvlaran/roadblock/obstacle"
)

// Sentinel errors returned by Search.
var (
	// ErrNilGraph indicates that a nil graph was passed to Search.
	ErrNilGraph = errors.New("astar: graph is nil")

	// ErrNodeNotFound indicates that source or destination is not in the graph.
	ErrNodeNotFound = errors.New("astar: endpoint not found in graph")

	// ErrBadMaxExpansions indicates a negative expansion cap.
	ErrBadMaxExpansions = errors.New("astar: MaxExpansions must be non-negative")
)

// Graph is the read-only view of the road network the search needs.
// *core.Graph satisfies it.
type Graph interface {
	Contains(id int64) bool
	Coordinates(id int64) (lat, lon float64, ok bool)
	Neighbors(id int64) []int64
	InNeighbors(id int64) []int64
	EdgeCost(u, v int64) float64
}

// Heuristic produces a per-search Estimator bound to one obstacle set.
type Heuristic interface {
	Bind(obstacles obstacle.Set) heuristic.Estimator
}

// Direction identifies which frontier an entry or edge belongs to.
type Direction uint8

const (
	// Forward grows from the source over outgoing arcs.
	Forward Direction = iota
	// Backward grows from the destination over incoming arcs.
	Backward
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction { return 1 - d }

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}

	return "backward"
}

// Outcome classifies a search result.
type Outcome int

const (
	// OutcomeFound means Path holds a route from source to destination.
	OutcomeFound Outcome = iota
	// OutcomeNoPath means the frontiers were exhausted without meeting.
	OutcomeNoPath
	// OutcomeBlockedEndpoint means source or destination is an obstacle; nothing was explored.
	OutcomeBlockedEndpoint
	// OutcomeTruncated means MaxExpansions or the context stopped the search first.
	OutcomeTruncated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNoPath:
		return "no_path"
	case OutcomeBlockedEndpoint:
		return "blocked_endpoint"
	case OutcomeTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// ExploredEdge is one improving relaxation, recorded as (current, neighbor)
// in the order the search performed it.
type ExploredEdge struct {
	From      int64     // node being expanded
	To        int64     // neighbor that was improved
	Direction Direction // frontier that performed the relaxation
}

// Arc returns the graph arc the relaxation traversed, as (tail, head).
// Backward relaxations walk incoming arcs, so their arc is To→From.
func (e ExploredEdge) Arc() (tail, head int64) {
	if e.Direction == Backward {
		return e.To, e.From
	}

	return e.From, e.To
}

// Result is the output of one search.
type Result struct {
	Outcome Outcome

	// Path lists node ids from source to destination inclusive; nil unless found.
	Path []int64

	// Cost is the summed edge length of Path in meters; +Inf unless found.
	Cost float64

	// Meeting is the node where the frontiers met; valid only when found.
	Meeting int64

	// Explored lists every improving relaxation in execution order.
	Explored []ExploredEdge

	// Expansions counts queue pops.
	Expansions int
}

// Found reports whether a path was found.
func (r *Result) Found() bool { return r != nil && r.Outcome == OutcomeFound }

// Options configures Search.
type Options struct {
	// Heuristic estimates remaining cost; nil ⇒ heuristic.New(g).
	Heuristic Heuristic

	// MaxExpansions caps queue pops; 0 ⇒ unlimited.
	MaxExpansions int

	// Ctx bounds the search in time; nil ⇒ never cancelled.
	Ctx context.Context

	// OnExpand and OnRelax are optional observation hooks.
	OnExpand func(dir Direction, id int64, g float64)
	OnRelax  func(e ExploredEdge, g float64)
}

// Option represents a functional option for configuring Search.
type Option func(*Options)

// WithHeuristic replaces the default obstacle-aware haversine heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		o.Heuristic = h
	}
}

// WithMaxExpansions caps the number of queue pops. Exceeding the cap ends the
// search with OutcomeTruncated and the edges explored so far.
// Panics on negative input; 0 means unlimited.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadMaxExpansions.Error())
		}
		o.MaxExpansions = n
	}
}

// WithContext lets a caller bound the search in wall-clock time.
// The context is polled every few hundred pops.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Ctx = ctx
	}
}

// WithOnExpand registers a hook called for each node about to be expanded.
func WithOnExpand(fn func(dir Direction, id int64, g float64)) Option {
	return func(o *Options) {
		o.OnExpand = fn
	}
}

// WithOnRelax registers a hook called for each improving relaxation.
func WithOnRelax(fn func(e ExploredEdge, g float64)) Option {
	return func(o *Options) {
		o.OnRelax = fn
	}
}

// DefaultOptions returns Options with the default heuristic left unresolved
// (it is bound to the graph inside Search), no caps and no hooks.
func DefaultOptions() Options {
	return Options{}
}
