package obstacle

import (
	"sync"
)

// Store is a concurrency-safe registry of the currently active obstacles.
//
// Writers (an obstacle CRUD surface, an admin tool) call Replace/Add/Remove;
// every query calls Snapshot once and routes against that Set only.
type Store struct {
	mu  sync.RWMutex
	cur Set

	// version increments on every successful mutation.
	version uint64
}

// NewStore returns a Store seeded with ids.
func NewStore(ids ...int64) *Store {
	return &Store{cur: NewSet(ids...)}
}

// Snapshot returns the current obstacle set. The result is immutable, so later
// writes to the Store never leak into a search already holding it.
func (st *Store) Snapshot() Set {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.cur
}

// Version returns a counter that changes whenever the obstacle set changes.
func (st *Store) Version() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.version
}

// Replace swaps the whole obstacle set. When valid is non-nil, ids for which
// it returns false (e.g. unknown to the road graph) are dropped. The accepted
// ids are returned in ascending order.
func (st *Store) Replace(ids []int64, valid func(int64) bool) []int64 {
	kept := make([]int64, 0, len(ids))
	for _, id := range ids {
		if valid != nil && !valid(id) {
			continue
		}
		kept = append(kept, id)
	}
	next := NewSet(kept...)

	st.mu.Lock()
	st.cur = next
	st.version++
	st.mu.Unlock()

	return next.IDs()
}

// Add marks ids as obstacles.
func (st *Store) Add(ids ...int64) {
	if len(ids) == 0 {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cur = st.cur.With(ids...)
	st.version++
}

// Remove clears ids from the obstacle set. Unknown ids are ignored.
func (st *Store) Remove(ids ...int64) {
	if len(ids) == 0 {
		return
	}
	drop := NewSet(ids...)

	st.mu.Lock()
	defer st.mu.Unlock()
	kept := make([]int64, 0, st.cur.Len())
	for id := range st.cur.ids {
		if !drop.Contains(id) {
			kept = append(kept, id)
		}
	}
	st.cur = NewSet(kept...)
	st.version++
}

// Clear removes every obstacle.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cur = Set{}
	st.version++
}

// Len returns the number of active obstacles.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.cur.Len()
}
