// Package obstacle models the nodes that are impassable for a routing query.
//
// Two types split the concern the way a serving process needs it:
//
//   - Set is an immutable snapshot handed to exactly one search. A search can
//     never observe it changing.
//   - Store is the process-wide "current obstacles" registry that writers
//     update; readers take a Snapshot() per query.
package obstacle

import "sort"

// Set is an immutable set of node ids. The zero value is an empty set.
type Set struct {
	ids map[int64]struct{}
}

// NewSet returns a Set holding ids. Duplicates collapse.
func NewSet(ids ...int64) Set {
	if len(ids) == 0 {
		return Set{}
	}
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}

	return Set{ids: m}
}

// Contains reports whether id is an obstacle. O(1).
func (s Set) Contains(id int64) bool {
	_, ok := s.ids[id]

	return ok
}

// Len returns the number of obstacles.
func (s Set) Len() int { return len(s.ids) }

// IDs returns the obstacle ids in ascending order.
func (s Set) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// With returns a new Set holding s plus ids; s is unchanged.
func (s Set) With(ids ...int64) Set {
	m := make(map[int64]struct{}, len(s.ids)+len(ids))
	for id := range s.ids {
		m[id] = struct{}{}
	}
	for _, id := range ids {
		m[id] = struct{}{}
	}

	return Set{ids: m}
}
