package loader_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/roadblock/loader"
)

const nodesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 1, "geometry": {"type": "Point", "coordinates": [0, 0]}, "properties": {}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [0.002, 0.002]}, "properties": {"osmid": 2}},
    {"type": "Feature", "geometry": null, "properties": {"osmid": "3", "y": 0.004, "x": 0.002}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 1]}, "properties": {}},
    {"type": "Feature", "id": 1, "geometry": {"type": "Point", "coordinates": [5, 5]}, "properties": {}}
  ]
}`

const edgesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [0.001, 0.0015], [0.002, 0.002]]},
     "properties": {"u": 1, "v": 2, "length": 300.5}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[0.002, 0.002], [0.002, 0.004]]},
     "properties": {"u": 2, "v": 3, "length": 222, "oneway": true}},
    {"type": "Feature", "geometry": null, "properties": {"u": 1, "v": 3}},
    {"type": "Feature", "geometry": null, "properties": {"u": 1, "v": 99, "length": 5}},
    {"type": "Feature", "geometry": null, "properties": {"u": 3, "v": 1, "length": "900", "oneway": "-1"}}
  ]
}`

func TestLoadGeoJSON(t *testing.T) {
	g, rep, err := loader.LoadGeoJSON(strings.NewReader(nodesJSON), strings.NewReader(edgesJSON))
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Nodes)
	assert.Equal(t, 3, rep.Edges)
	assert.Equal(t, 1, rep.Skipped[loader.ReasonNodeNoID])
	assert.Equal(t, 1, rep.Skipped[loader.ReasonNodeDuplicate])
	assert.Equal(t, 1, rep.Skipped[loader.ReasonEdgeBadLength])
	assert.Equal(t, 1, rep.Skipped[loader.ReasonEdgeNoEndpoint])
	assert.Equal(t, 4, rep.SkippedTotal())
	assert.Equal(t, 1, rep.Components)
	assert.Equal(t, 3, rep.LargestComponent)

	lat, lon, ok := g.Coordinates(3)
	require.True(t, ok)
	assert.Equal(t, [2]float64{0.004, 0.002}, [2]float64{lat, lon})

	// Curved two-way edge keeps its geometry both ways.
	assert.Equal(t, 300.5, g.EdgeCost(1, 2))
	assert.Equal(t, 300.5, g.EdgeCost(2, 1))
	ls, ok := g.EdgeGeometry(1, 2)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{0, 0}, {0.001, 0.0015}, {0.002, 0.002}}, ls)

	// oneway=true keeps only 2→3.
	assert.Equal(t, 222.0, g.EdgeCost(2, 3))
	assert.True(t, math.IsInf(g.EdgeCost(3, 2), 1))

	// oneway=-1 flips 3→1 into 1→3.
	assert.Equal(t, 900.0, g.EdgeCost(1, 3))
	assert.True(t, math.IsInf(g.EdgeCost(3, 1), 1))
}

func TestLoadGeoJSON_Directed(t *testing.T) {
	g, _, err := loader.LoadGeoJSON(strings.NewReader(nodesJSON), strings.NewReader(edgesJSON), loader.WithDirected(true))
	require.NoError(t, err)
	assert.Equal(t, 300.5, g.EdgeCost(1, 2))
	assert.True(t, math.IsInf(g.EdgeCost(2, 1), 1))
}

func TestLoadGeoJSON_Errors(t *testing.T) {
	_, _, err := loader.LoadGeoJSON(nil, strings.NewReader(edgesJSON))
	require.ErrorIs(t, err, loader.ErrNilReader)

	_, _, err = loader.LoadGeoJSON(strings.NewReader("not json"), strings.NewReader(edgesJSON))
	require.Error(t, err)

	empty := `{"type": "FeatureCollection", "features": []}`
	_, _, err = loader.LoadGeoJSON(strings.NewReader(empty), strings.NewReader(empty))
	require.ErrorIs(t, err, loader.ErrEmptyGraph)
}

const osmXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="10" lat="0.000" lon="0.000"/>
  <node id="11" lat="0.000" lon="0.001"/>
  <node id="12" lat="0.001" lon="0.001"/>
  <node id="13" lat="0.002" lon="0.002"/>
  <node id="14" lat="0.003" lon="0.003"/>
  <way id="100">
    <nd ref="10"/><nd ref="11"/><nd ref="12"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="101">
    <nd ref="12"/><nd ref="13"/>
    <tag k="highway" v="primary"/>
    <tag k="oneway" v="yes"/>
  </way>
  <way id="102">
    <nd ref="13"/><nd ref="999"/>
    <tag k="highway" v="primary"/>
  </way>
  <way id="103">
    <nd ref="13"/><nd ref="14"/>
    <tag k="building" v="yes"/>
  </way>
</osm>`

func TestLoadOSM(t *testing.T) {
	g, rep, err := loader.LoadOSM(context.Background(), strings.NewReader(osmXML))
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Nodes)
	assert.Equal(t, 3, rep.Edges)
	assert.Equal(t, 1, rep.Skipped[loader.ReasonEdgeNoEndpoint])
	assert.Equal(t, 1, rep.Components)
	assert.False(t, g.Contains(14), "non-highway nodes are dropped")

	// 0.001° of longitude on the equator is about 111.19 m.
	assert.InDelta(t, 111.19, g.EdgeCost(10, 11), 0.01)
	assert.Equal(t, g.EdgeCost(10, 11), g.EdgeCost(11, 10))

	assert.False(t, math.IsInf(g.EdgeCost(12, 13), 1))
	assert.True(t, math.IsInf(g.EdgeCost(13, 12), 1))
}

func TestLoadOSM_HighwayFilter(t *testing.T) {
	g, rep, err := loader.LoadOSM(context.Background(), strings.NewReader(osmXML), loader.WithHighways("Primary"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Edges)
	assert.Equal(t, 2, rep.LargestComponent)
	assert.False(t, g.Contains(10))
	assert.True(t, g.Contains(12))
}

func TestLoadOSM_NoHighways(t *testing.T) {
	_, _, err := loader.LoadOSM(context.Background(), strings.NewReader(`<osm version="0.6"></osm>`))
	require.ErrorIs(t, err, loader.ErrEmptyGraph)
}
