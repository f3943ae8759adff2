package astar_test

import (
	"fmt"

	"github.com/katalvlaran/roadblock/astar"
	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/obstacle"
)

// ExampleSearch routes around a blocked intersection on a four-node block.
func ExampleSearch() {
	b := core.NewBuilder()
	_ = b.AddNode(1, 0, 0)
	_ = b.AddNode(2, 0, 1)
	_ = b.AddNode(3, 1, 1)
	_ = b.AddNode(4, 1, 0)
	_ = b.AddEdge(1, 2, 10)
	_ = b.AddEdge(2, 3, 10)
	_ = b.AddEdge(1, 4, 10)
	_ = b.AddEdge(4, 3, 10)
	g := b.Build()

	res, err := astar.Search(g, 1, 3, obstacle.NewSet(2))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Outcome, res.Path, res.Cost)
	for _, e := range res.Explored {
		fmt.Println(e.Direction, e.From, "->", e.To)
	}
	// Output:
	// found [1 4 3] 20
	// forward 1 -> 4
	// forward 4 -> 3
}
