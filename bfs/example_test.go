package bfs_test

import (
	"fmt"

	"github.com/katalvlaran/roadblock/bfs"
	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/obstacle"
)

// ExampleComponents shows a closure splitting a three-node street in two.
func ExampleComponents() {
	b := core.NewBuilder()
	_ = b.AddNode(1, 0, 0)
	_ = b.AddNode(2, 0, 0.001)
	_ = b.AddNode(3, 0, 0.002)
	_ = b.AddEdge(1, 2, 111)
	_ = b.AddEdge(2, 3, 111)
	g := b.Build()

	comps, _ := bfs.Components(g)
	fmt.Println(comps)

	comps, _ = bfs.Components(g, bfs.WithObstacles(obstacle.NewSet(2)))
	fmt.Println(comps)
	// Output:
	// [[1 2 3]]
	// [[1] [3]]
}
