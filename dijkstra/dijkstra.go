// Package dijkstra implements Dijkstra's shortest-path algorithm on the road network.
//
// Dijkstra computes the minimum-length route from a single source node to all
// other reachable nodes. Edge lengths are non-negative by construction
// (core.Builder rejects negative lengths), so no pre-scan is needed.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Each node is extracted at most once: V extractions from the heap.
//   - Each arc relaxation may push a new entry into the heap: up to E pushes.
//   - Space: O(V + E)
//
// Notes on implementation choices:
//
//   - We treat any arc with length ≥ InfEdgeThreshold (or +Inf) as impassable.
//   - We stop exploring once the minimum distance in the heap exceeds MaxDistance.
//   - We use a “lazy” decrease-key strategy: pushing duplicates into the heap and ignoring stale entries.
//   - Obstacles are never entered, matching the router's obstacle semantics.
package dijkstra

import (
	"container/heap"
	"fmt"
	"math"
)

// Dijkstra computes shortest distances from source to all other nodes of g.
//
// Returns:
//
//   - dist: map from node ID to minimum distance; unreachable nodes are absent.
//   - prev: optional predecessor map if ReturnPath=true (nil otherwise).
//     prev[v] == u means the shortest path to v goes through u.
//   - err:  error if inputs are invalid.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. g must contain source (ErrNodeNotFound).
func Dijkstra(g Graph, source int64, opts ...Option) (map[int64]float64, map[int64]int64, error) {
	// 1) Build Options.
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	// 2) Validate graph is non-nil.
	if g == nil {
		return nil, nil, ErrNilGraph
	}

	// 3) Validate source exists in the graph.
	if !g.Contains(source) {
		return nil, nil, fmt.Errorf("%w: %d", ErrNodeNotFound, source)
	}

	// 4) Initialize runner and run main loop.
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make(map[int64]float64),
		visited: make(map[int64]bool),
	}
	if cfg.ReturnPath {
		r.prev = make(map[int64]int64)
	}
	r.init(source)
	r.process()

	return r.dist, r.prev, nil
}

// PathTo walks prev from target back to source and returns the node sequence
// source→target. ok is false when target was not reached.
func PathTo(prev map[int64]int64, source, target int64) ([]int64, bool) {
	if source == target {
		return []int64{source}, true
	}
	if _, ok := prev[target]; !ok {
		return nil, false
	}

	path := []int64{target}
	for cur := target; cur != source; {
		p, ok := prev[cur]
		if !ok {
			return nil, false
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, true
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       Graph             // The input graph; read-only within Dijkstra.
	options Options           // Configuration options (thresholds, obstacles).
	dist    map[int64]float64 // Maps node ID → current best distance from source.
	prev    map[int64]int64   // Maps node ID → predecessor on the shortest path.
	visited map[int64]bool    // Tracks if a node's distance is finalized.
	pq      nodePQ            // Min-heap of *nodeItem for lazy priority queue.
}

// init sets the source distance to zero and pushes it onto the heap.
func (r *runner) init(source int64) {
	r.dist[source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: source, dist: 0})
}

// process is the core loop of Dijkstra's algorithm. It repeatedly extracts the node
// with the minimum distance from the source and relaxes its outgoing arcs.
//
// Loop termination conditions:
//
//   - The heap becomes empty (all reachable nodes processed).
//   - The minimum distance in the heap exceeds MaxDistance (no need to explore farther).
func (r *runner) process() {
	var item *nodeItem
	for r.pq.Len() > 0 {
		// 1) Pop the smallest-distance item from the heap.
		item = heap.Pop(&r.pq).(*nodeItem)

		// 2) If this node was already visited (finalized), skip stale heap entry.
		if r.visited[item.id] {
			continue
		}

		// 3) If this distance exceeds MaxDistance, stop exploring any further nodes.
		if item.dist > r.options.MaxDistance {
			break
		}

		// 4) Mark as visited. Its shortest distance is now final.
		r.visited[item.id] = true

		// 5) Relax all outgoing arcs.
		r.relax(item.id)
	}
}

// relax examines each arc leaving u and attempts to improve distances to its neighbors.
//
// Assumes r.dist[u] is finalized before calling relax(u).
func (r *runner) relax(u int64) {
	var v int64
	var w, newDist float64
	for _, v = range r.g.Neighbors(u) {
		// Obstacles are never entered.
		if r.options.Obstacles.Contains(v) {
			continue
		}

		w = r.g.EdgeCost(u, v)
		// Skip arcs that are missing, unusable or over the impassable threshold.
		if math.IsNaN(w) || w < 0 || w >= r.options.InfEdgeThreshold || math.IsInf(w, 1) {
			continue
		}

		// Compute candidate distance if we go from source → … → u → v.
		newDist = r.dist[u] + w
		if newDist > r.options.MaxDistance {
			continue
		}

		// If newDist is not strictly better than the current dist[v], skip.
		if cur, ok := r.dist[v]; ok && newDist >= cur {
			continue
		}

		r.dist[v] = newDist
		if r.prev != nil {
			r.prev[v] = u
		}

		// Lazy decrease-key: stale entries are skipped on pop via visited.
		heap.Push(&r.pq, &nodeItem{id: v, dist: newDist})
	}
}

// nodeItem represents a node and its current distance from the source.
type nodeItem struct {
	id   int64   // node ID
	dist float64 // distance from source
}

// nodePQ is a min-heap (priority queue) of *nodeItem, ordered by nodeItem.dist ascending,
// then by id so equal distances pop in a reproducible order.
type nodePQ []*nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less defines the comparison: smaller dist → higher priority.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
// Called by heap.Push; x must be of type *nodeItem.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

// Pop removes and returns the smallest element from the heap.
// Called by heap.Pop; returns interface{} that must be cast to *nodeItem.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
