package astar

// entry is one queue element: a node discovered by one direction with its
// cost-so-far and estimated total cost.
type entry struct {
	f   float64   // g + h toward the opposite root
	g   float64   // cost-so-far when pushed; stale once the frontier improves it
	seq uint64    // push order, breaks ties on f
	id  int64     // node id
	dir Direction // owning frontier
}

// entryPQ is a min-heap of *entry ordered by (f, seq). Both frontiers share
// one heap so the globally cheapest estimate is always expanded next; seq
// makes equal-f pops follow push order, which keeps results reproducible.
// Lazy decrease-key: improved nodes are pushed again and stale entries are
// recognized on pop by comparing entry.g with the frontier's cost.
type entryPQ []*entry

// Len returns the number of items in the heap.
func (pq entryPQ) Len() int { return len(pq) }

// Less orders by f, then by insertion sequence.
func (pq entryPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}

	return pq[i].seq < pq[j].seq
}

// Swap swaps two elements in the heap.
func (pq entryPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push is called by heap.Push; x must be *entry.
func (pq *entryPQ) Push(x interface{}) { *pq = append(*pq, x.(*entry)) }

// Pop is called by heap.Pop.
func (pq *entryPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}

// frontier is the per-direction search tree: best-known cost and predecessor
// of every discovered node. The root has a cost but no predecessor.
type frontier struct {
	root int64
	cost map[int64]float64
	pred map[int64]int64
}

func newFrontier(root int64) *frontier {
	return &frontier{
		root: root,
		cost: map[int64]float64{root: 0},
		pred: make(map[int64]int64),
	}
}

// costOf returns the best-known cost to id, or +Inf semantics via ok=false.
func (f *frontier) costOf(id int64) (float64, bool) {
	c, ok := f.cost[id]

	return c, ok
}

// reached reports whether id is the root or has a recorded predecessor.
func (f *frontier) reached(id int64) bool {
	if id == f.root {
		return true
	}
	_, ok := f.pred[id]

	return ok
}
