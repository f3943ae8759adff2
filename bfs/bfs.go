package bfs

import (
	"context"
	"fmt"
	"sort"
)

type queueItem struct {
	id    int64
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph Graph
	opts  Options
	ctx   context.Context
	queue []queueItem
	res   *Result
}

// BFS runs breadth-first search on g from start, applying any number of
// functional Options. Returns ErrGraphNil, ErrStartVertexNotFound or
// ErrStartBlocked for invalid input, ErrOptionViolation for bad options, the
// context error on cancellation, or any OnVisit error.
func BFS(g Graph, start int64, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.Contains(start) {
		return nil, ErrStartVertexNotFound
	}
	if o.Obstacles.Contains(start) {
		return nil, ErrStartBlocked
	}

	w := &walker{
		graph: g,
		opts:  o,
		ctx:   o.Ctx,
		res: &Result{
			Depth:  make(map[int64]int),
			Parent: make(map[int64]int64),
		},
	}
	w.enqueue(start, 0)

	return w.res, w.loop()
}

// Components splits g into weakly connected components, ignoring arc
// direction and leaving obstacle nodes out entirely. Components are ordered
// by size, largest first, ties broken by smallest node id; ids inside a
// component are ascending.
func Components(g interface {
	Graph
	NodeIDs() []int64
}, opts ...Option) ([][]int64, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	seen := make(map[int64]bool)
	var comps [][]int64
	for _, id := range g.NodeIDs() {
		if seen[id] || o.Obstacles.Contains(id) {
			continue
		}
		res, err := BFS(g, id,
			WithContext(o.Ctx),
			WithDirection(Both),
			WithObstacles(o.Obstacles),
			WithFilterNeighbor(o.FilterNeighbor),
		)
		if err != nil {
			return nil, err
		}
		comp := res.Order
		for _, v := range comp {
			seen[v] = true
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	sort.SliceStable(comps, func(i, j int) bool { return len(comps[i]) > len(comps[j]) })

	return comps, nil
}

func (w *walker) enqueue(id int64, d int) {
	w.res.Depth[id] = d
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.id, err)
		}
		if w.opts.MaxDepth > 0 && item.depth >= w.opts.MaxDepth {
			continue
		}
		w.expand(item)
	}
	return nil
}

func (w *walker) expand(item queueItem) {
	visit := func(nbrs []int64) {
		for _, nbr := range nbrs {
			if _, seen := w.res.Depth[nbr]; seen {
				continue
			}
			if w.opts.Obstacles.Contains(nbr) || !w.opts.FilterNeighbor(item.id, nbr) {
				continue
			}
			w.res.Parent[nbr] = item.id
			w.enqueue(nbr, item.depth+1)
		}
	}

	switch w.opts.Direction {
	case Forward:
		visit(w.graph.Neighbors(item.id))
	case Backward:
		visit(w.graph.InNeighbors(item.id))
	case Both:
		visit(w.graph.Neighbors(item.id))
		visit(w.graph.InNeighbors(item.id))
	}
}
