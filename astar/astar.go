// Package astar implements an obstacle-aware bidirectional A* search.
//
// Complexity:
//
//   - Time:  O((V + E) log V) in the worst case, typically far less because
//     the search stops at the first contact between the two frontiers.
//   - Space: O(V + E) for both frontiers' cost/predecessor maps and the
//     lazily decreased heap.
//
// Notes on implementation choices:
//
//   - One heap holds both directions; ties on f are broken by push order.
//   - The meeting rule is first contact, not full settlement, so the route is
//     not guaranteed optimal even with an admissible heuristic: with no
//     obstacles at all it can still be longer than the Dijkstra optimum. With the
//     obstacle penalty active the heuristic is not admissible either; both are
//     accepted properties of this router.
//   - Arcs whose cost is +Inf or NaN are treated as non-traversable.
//   - The graph and obstacle set are only read; all mutable state lives in a
//     runner owned by one Search call, so concurrent searches need no locks.
package astar

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/roadblock/heuristic"
	"github.com/katalvlaran/roadblock/obstacle"
)

// ctxPollInterval is how many pops pass between context checks.
const ctxPollInterval = 256

// Search finds a route from source to destination in g that avoids every node
// in obstacles, and records every improving relaxation it performs.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph). A nil *core.Graph is an empty
//     network, so it fails the endpoint check instead.
//  2. source and destination must be graph nodes (ErrNodeNotFound).
//  3. If source or destination is an obstacle the result is
//     OutcomeBlockedEndpoint with an empty Explored list; no search runs.
//
// A nil error with Outcome != OutcomeFound is the normal "no route" answer.
func Search(g Graph, source, destination int64, obstacles obstacle.Set, opts ...Option) (*Result, error) {
	// 1) Build options.
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	// 2) Validate graph and endpoints.
	if g == nil {
		return nil, ErrNilGraph
	}
	if !g.Contains(source) {
		return nil, fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
	}
	if !g.Contains(destination) {
		return nil, fmt.Errorf("%w: destination %d", ErrNodeNotFound, destination)
	}

	// 3) Blocked endpoints short-circuit before any state is allocated.
	if obstacles.Contains(source) || obstacles.Contains(destination) {
		return &Result{Outcome: OutcomeBlockedEndpoint, Cost: math.Inf(1), Explored: []ExploredEdge{}}, nil
	}

	// 4) Resolve the heuristic once for this obstacle snapshot.
	h := cfg.Heuristic
	if h == nil {
		h = heuristic.New(g)
	}

	r := &runner{
		g:         g,
		options:   cfg,
		obstacles: obstacles,
		estimate:  h.Bind(obstacles),
		fronts:    [2]*frontier{newFrontier(source), newFrontier(destination)},
		explored:  make([]ExploredEdge, 0, 64),
	}

	// 5) Seed and run.
	r.init()
	meeting, outcome := r.process()

	res := &Result{
		Outcome:    outcome,
		Cost:       math.Inf(1),
		Explored:   r.explored,
		Expansions: r.expansions,
	}
	if outcome != OutcomeFound {
		return res, nil
	}

	// 6) Reconstruct; an obstacle on the stitched path voids the result.
	path, ok := r.reconstruct(meeting)
	if !ok {
		res.Outcome = OutcomeNoPath
		return res, nil
	}
	res.Path = path
	res.Meeting = meeting
	res.Cost = PathCost(g, path)

	return res, nil
}

// PathCost sums EdgeCost over consecutive nodes of path. A single-node path
// costs 0; a missing arc makes the total +Inf.
func PathCost(g Graph, path []int64) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += g.EdgeCost(path[i-1], path[i])
	}

	return total
}

// runner holds the mutable state for a single bidirectional search.
type runner struct {
	g         Graph               // read-only road network
	options   Options             // hooks and caps
	obstacles obstacle.Set        // immutable per-query snapshot
	estimate  heuristic.Estimator // bound to obstacles
	fronts    [2]*frontier        // indexed by Direction
	pq        entryPQ             // shared min-heap of both directions
	seq       uint64              // next push sequence number

	explored   []ExploredEdge
	expansions int
}

// init pushes both roots with f = h(root, otherRoot). Forward is pushed first,
// so on equal estimates the forward root pops first.
func (r *runner) init() {
	heap.Init(&r.pq)
	src, dst := r.fronts[Forward].root, r.fronts[Backward].root
	r.push(Forward, src, 0, r.estimate(src, dst))
	r.push(Backward, dst, 0, r.estimate(dst, src))
}

func (r *runner) push(dir Direction, id int64, g, f float64) {
	heap.Push(&r.pq, &entry{f: f, g: g, seq: r.seq, id: id, dir: dir})
	r.seq++
}

// process pops entries until the frontiers meet, the heap drains, or a cap
// or the context stops the search.
//
// Loop termination conditions:
//
//   - The popped node is already reached by the opposite frontier (meeting).
//   - The heap becomes empty (no path).
//   - MaxExpansions pops happened or Ctx is done (truncated).
func (r *runner) process() (int64, Outcome) {
	var it *entry
	for r.pq.Len() > 0 {
		// 1) Honor the caps before doing more work.
		if r.options.MaxExpansions > 0 && r.expansions >= r.options.MaxExpansions {
			return 0, OutcomeTruncated
		}
		if r.options.Ctx != nil && r.expansions%ctxPollInterval == 0 && r.options.Ctx.Err() != nil {
			return 0, OutcomeTruncated
		}

		// 2) Pop the cheapest estimate across both directions.
		it = heap.Pop(&r.pq).(*entry)
		r.expansions++

		// 3) First contact with the opposite tree ends the search.
		if r.fronts[it.dir.Opposite()].reached(it.id) {
			return it.id, OutcomeFound
		}

		// 4) A stale entry was superseded by a cheaper push; its node has
		//    already been expanded at the better cost.
		if cur, _ := r.fronts[it.dir].costOf(it.id); it.g > cur {
			continue
		}

		// 5) Relax neighbors in this direction.
		r.expand(it.dir, it.id)
	}

	return 0, OutcomeNoPath
}

// expand relaxes every neighbor of u in direction dir.
//
// Forward walks outgoing arcs u→v and estimates toward the destination;
// backward walks incoming arcs v→u and estimates toward the source.
func (r *runner) expand(dir Direction, u int64) {
	// Obstacles are never expanded.
	if r.obstacles.Contains(u) {
		return
	}

	front := r.fronts[dir]
	target := r.fronts[dir.Opposite()].root
	gu := front.cost[u]
	if r.options.OnExpand != nil {
		r.options.OnExpand(dir, u, gu)
	}

	var neighbors []int64
	if dir == Forward {
		neighbors = r.g.Neighbors(u)
	} else {
		neighbors = r.g.InNeighbors(u)
	}

	var v int64
	var w, cand float64
	for _, v = range neighbors {
		if r.obstacles.Contains(v) {
			continue
		}

		if dir == Forward {
			w = r.g.EdgeCost(u, v)
		} else {
			w = r.g.EdgeCost(v, u)
		}
		// Missing or unusable arcs are non-traversable.
		if math.IsInf(w, 1) || math.IsNaN(w) || w < 0 {
			continue
		}

		cand = gu + w
		if prev, seen := front.costOf(v); seen && cand >= prev {
			continue
		}

		front.cost[v] = cand
		front.pred[v] = u
		r.push(dir, v, cand, cand+r.estimate(v, target))

		e := ExploredEdge{From: u, To: v, Direction: dir}
		r.explored = append(r.explored, e)
		if r.options.OnRelax != nil {
			r.options.OnRelax(e, cand)
		}
	}
}

// reconstruct stitches the forward tree (source→meeting) and the backward
// tree (meeting→destination). ok is false if any node on the path is an
// obstacle.
func (r *runner) reconstruct(meeting int64) ([]int64, bool) {
	fwd, bwd := r.fronts[Forward], r.fronts[Backward]

	// Forward half, collected meeting→source then reversed.
	var path []int64
	node := meeting
	for {
		path = append(path, node)
		p, ok := fwd.pred[node]
		if !ok {
			break
		}
		node = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	// Backward half, meeting→destination.
	node = meeting
	for {
		p, ok := bwd.pred[node]
		if !ok {
			break
		}
		node = p
		path = append(path, node)
	}

	for _, id := range path {
		if r.obstacles.Contains(id) {
			return nil, false
		}
	}

	return path, true
}
