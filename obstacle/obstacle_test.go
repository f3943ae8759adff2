package obstacle_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/roadblock/obstacle"
)

func TestSet_Basics(t *testing.T) {
	var empty obstacle.Set
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Contains(1))
	assert.Empty(t, empty.IDs())

	s := obstacle.NewSet(3, 1, 3, 2)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(2))
	assert.Equal(t, []int64{1, 2, 3}, s.IDs())

	s2 := s.With(7)
	assert.True(t, s2.Contains(7))
	assert.False(t, s.Contains(7), "With must not mutate the receiver")
}

func TestStore_ReplaceFiltersUnknownIDs(t *testing.T) {
	known := map[int64]bool{1: true, 2: true}
	st := obstacle.NewStore()

	accepted := st.Replace([]int64{2, 1, 99}, func(id int64) bool { return known[id] })
	assert.Equal(t, []int64{1, 2}, accepted)
	assert.Equal(t, []int64{1, 2}, st.Snapshot().IDs())

	accepted = st.Replace([]int64{5}, nil)
	assert.Equal(t, []int64{5}, accepted)
	assert.Equal(t, 1, st.Len())
}

func TestStore_SnapshotIsStable(t *testing.T) {
	st := obstacle.NewStore(1, 2)
	snap := st.Snapshot()
	v := st.Version()

	st.Add(3)
	st.Remove(1)

	assert.Equal(t, []int64{1, 2}, snap.IDs(), "snapshot taken before writes is unchanged")
	assert.Equal(t, []int64{2, 3}, st.Snapshot().IDs())
	assert.Greater(t, st.Version(), v)

	st.Clear()
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 2, snap.Len())
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	st := obstacle.NewStore()
	const n = 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func(id int64) {
			defer wg.Done()
			st.Add(id)
		}(int64(i))
		go func() {
			defer wg.Done()
			snap := st.Snapshot()
			ids := snap.IDs()
			require.Len(t, ids, snap.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, n, st.Len())
}
