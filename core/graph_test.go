// Package core_test verifies graph construction and the read-only query surface.
package core_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/roadblock/core"
)

// square builds A(1)=(0,0) B(2)=(0,1) C(3)=(1,1) D(4)=(1,0), two-way sides of length 10.
func square(t *testing.T) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))
	require.NoError(t, b.AddNode(3, 1, 1))
	require.NoError(t, b.AddNode(4, 1, 0))
	require.NoError(t, b.AddEdge(1, 2, 10))
	require.NoError(t, b.AddEdge(2, 3, 10))
	require.NoError(t, b.AddEdge(1, 4, 10))
	require.NoError(t, b.AddEdge(4, 3, 10))

	return b.Build()
}

func TestBuild_UndirectedMirrorsArcs(t *testing.T) {
	g := square(t)

	assert.Equal(t, []int64{2, 4}, g.Neighbors(1))
	assert.Equal(t, []int64{1, 3}, g.Neighbors(2))
	assert.Equal(t, []int64{2, 4}, g.InNeighbors(1))
	assert.Equal(t, 10.0, g.EdgeCost(1, 2))
	assert.Equal(t, 10.0, g.EdgeCost(2, 1))
	assert.True(t, math.IsInf(g.EdgeCost(1, 3), 1), "no diagonal arc")

	st := g.Stats()
	assert.Equal(t, core.Stats{Nodes: 4, Edges: 4, Arcs: 8, OrderedPairs: 8}, st)
}

func TestBuild_StraightTwoWayEdge(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 0.001))
	require.NoError(t, b.AddEdge(1, 2, 111))

	var g *core.Graph
	require.NotPanics(t, func() { g = b.Build() })
	assert.Equal(t, 111.0, g.EdgeCost(1, 2))
	assert.Equal(t, 111.0, g.EdgeCost(2, 1))
	_, ok := g.EdgeGeometry(2, 1)
	assert.False(t, ok, "a straight edge has no shape in either direction")
}

func TestGraph_NilReadsAsEmpty(t *testing.T) {
	var g *core.Graph

	assert.False(t, g.Contains(1))
	assert.False(t, g.Directed())
	assert.Nil(t, g.Neighbors(1))
	assert.Nil(t, g.InNeighbors(1))
	assert.True(t, math.IsInf(g.EdgeCost(1, 2), 1))
	assert.Zero(t, g.Multiplicity(1, 2))
	assert.Empty(t, g.NodeIDs())
	assert.Equal(t, core.Stats{}, g.Stats())
	_, _, ok := g.Coordinates(1)
	assert.False(t, ok)
}

func TestBuild_DirectedKeepsOrientation(t *testing.T) {
	b := core.NewBuilder(core.WithDirected(true))
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))
	require.NoError(t, b.AddEdge(1, 2, 5))
	g := b.Build()

	assert.Equal(t, []int64{2}, g.Neighbors(1))
	assert.Empty(t, g.Neighbors(2))
	assert.Equal(t, []int64{1}, g.InNeighbors(2))
	assert.True(t, math.IsInf(g.EdgeCost(2, 1), 1))
}

func TestAddEdge_MixedOverride(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))

	err := b.AddEdge(1, 2, 5, core.WithEdgeDirected(true))
	require.ErrorIs(t, err, core.ErrMixedEdgesNotAllowed)

	b = core.NewBuilder(core.WithMixedEdges())
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))
	require.NoError(t, b.AddEdge(1, 2, 5, core.WithEdgeDirected(true)))
	g := b.Build()
	assert.Equal(t, 5.0, g.EdgeCost(1, 2))
	assert.True(t, math.IsInf(g.EdgeCost(2, 1), 1))
}

func TestAddEdge_Validation(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 0, 0))

	require.ErrorIs(t, b.AddEdge(1, 99, 1), core.ErrNodeNotFound)
	require.ErrorIs(t, b.AddEdge(99, 1, 1), core.ErrNodeNotFound)
	require.ErrorIs(t, b.AddEdge(1, 1, -1), core.ErrBadLength)
	require.ErrorIs(t, b.AddEdge(1, 1, math.NaN()), core.ErrBadLength)
	require.ErrorIs(t, b.AddEdge(1, 1, math.Inf(1)), core.ErrBadLength)
}

func TestAddNode_Validation(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 10, 20))
	require.NoError(t, b.AddNode(1, 10, 20), "identical re-add is a no-op")
	require.ErrorIs(t, b.AddNode(1, 10, 21), core.ErrDuplicateNode)
	require.ErrorIs(t, b.AddNode(2, 91, 0), core.ErrBadCoordinate)
	require.ErrorIs(t, b.AddNode(3, 0, math.NaN()), core.ErrBadCoordinate)
	assert.Equal(t, 1, b.NodeCount())
	assert.True(t, b.HasNode(1))
	assert.False(t, b.HasNode(2))
}

func TestParallelEdges_MinimumLengthAndGeometry(t *testing.T) {
	b := core.NewBuilder(core.WithDirected(true))
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))

	long := orb.LineString{{0, 0}, {0.5, 0.2}, {1, 0}}
	short := orb.LineString{{0, 0}, {0.5, -0.1}, {1, 0}}
	tie := orb.LineString{{0, 0}, {0.5, 0.3}, {1, 0}}
	require.NoError(t, b.AddEdge(1, 2, 30, core.WithGeometry(long)))
	require.NoError(t, b.AddEdge(1, 2, 12, core.WithGeometry(short)))
	require.NoError(t, b.AddEdge(1, 2, 12, core.WithGeometry(tie)))
	g := b.Build()

	assert.Equal(t, 12.0, g.EdgeCost(1, 2))
	assert.Equal(t, 3, g.Multiplicity(1, 2))
	ls, ok := g.EdgeGeometry(1, 2)
	require.True(t, ok)
	assert.Equal(t, short, ls, "first minimum-length edge wins ties")
	assert.Equal(t, []int64{2}, g.Neighbors(1), "parallel arcs yield one neighbor")
}

func TestEdgeGeometry_MirrorIsReversed(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))
	shape := orb.LineString{{0, 0}, {0.5, 0.1}, {1, 0}}
	require.NoError(t, b.AddEdge(1, 2, 10, core.WithGeometry(shape)))
	g := b.Build()

	fwd, ok := g.EdgeGeometry(1, 2)
	require.True(t, ok)
	assert.Equal(t, shape, fwd)

	back, ok := g.EdgeGeometry(2, 1)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{1, 0}, {0.5, 0.1}, {0, 0}}, back)

	// Returned geometry is a copy.
	fwd[0] = orb.Point{9, 9}
	again, _ := g.EdgeGeometry(1, 2)
	assert.Equal(t, shape, again)
}

func TestEdgeGeometry_StraightAndMissing(t *testing.T) {
	g := square(t)
	_, ok := g.EdgeGeometry(1, 2)
	assert.False(t, ok, "straight segment")
	_, ok = g.EdgeGeometry(1, 3)
	assert.False(t, ok, "no arc")
}

func TestCoordinatesAndContains(t *testing.T) {
	g := square(t)
	lat, lon, ok := g.Coordinates(3)
	require.True(t, ok)
	assert.Equal(t, 1.0, lat)
	assert.Equal(t, 1.0, lon)

	_, _, ok = g.Coordinates(42)
	assert.False(t, ok)
	assert.True(t, g.Contains(4))
	assert.False(t, g.Contains(42))
	assert.Nil(t, g.Neighbors(42))
	assert.Equal(t, []int64{1, 2, 3, 4}, g.NodeIDs())

	n, ok := g.Node(2)
	require.True(t, ok)
	assert.Equal(t, orb.Point{1, 0}, n.Point())
}

func TestBuild_SnapshotIsolatedFromBuilder(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.AddNode(1, 0, 0))
	require.NoError(t, b.AddNode(2, 0, 1))
	g := b.Build()

	require.NoError(t, b.AddEdge(1, 2, 1))
	require.NoError(t, b.AddNode(3, 1, 1))

	assert.Empty(t, g.Neighbors(1))
	assert.False(t, g.Contains(3))
}
