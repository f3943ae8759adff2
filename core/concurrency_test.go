// Package core_test verifies that Builder is safe for concurrent loaders and
// that a built Graph is safe for concurrent readers.
package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/roadblock/core"
)

// TestConcurrentAddEdge ensures that concurrent AddEdge calls on one Builder
// are serialized and every edge lands in the graph.
func TestConcurrentAddEdge(t *testing.T) {
	b := core.NewBuilder(core.WithDirected(true))
	require.NoError(t, b.AddNode(0, 0, 0))
	const num = 200
	for i := 1; i <= num; i++ {
		require.NoError(t, b.AddNode(int64(i), 0, float64(i)/1000))
	}

	var wg sync.WaitGroup
	wg.Add(num)
	for i := 1; i <= num; i++ {
		go func(id int64) {
			defer wg.Done()
			require.NoError(t, b.AddEdge(0, id, float64(id)))
		}(int64(i))
	}
	wg.Wait()

	g := b.Build()
	require.Len(t, g.Neighbors(0), num)
}

// TestConcurrentReaders hammers one Graph from many goroutines; run with -race.
func TestConcurrentReaders(t *testing.T) {
	g := square(t)

	const readers = 50
	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for _, id := range g.NodeIDs() {
				for _, nb := range g.Neighbors(id) {
					_ = g.EdgeCost(id, nb)
					_, _ = g.EdgeGeometry(id, nb)
				}
				_, _, _ = g.Coordinates(id)
			}
		}()
	}
	wg.Wait()
}
