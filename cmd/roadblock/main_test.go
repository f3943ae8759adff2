package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareNodes = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": 1, "geometry": {"type": "Point", "coordinates": [0, 0]}, "properties": {}},
  {"type": "Feature", "id": 2, "geometry": {"type": "Point", "coordinates": [1, 0]}, "properties": {}},
  {"type": "Feature", "id": 3, "geometry": {"type": "Point", "coordinates": [1, 1]}, "properties": {}},
  {"type": "Feature", "id": 4, "geometry": {"type": "Point", "coordinates": [0, 1]}, "properties": {}}
]}`

const squareEdges = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "geometry": null, "properties": {"u": 1, "v": 2, "length": 10}},
  {"type": "Feature", "geometry": null, "properties": {"u": 2, "v": 3, "length": 10}},
  {"type": "Feature", "geometry": null, "properties": {"u": 1, "v": 4, "length": 10}},
  {"type": "Feature", "geometry": null, "properties": {"u": 4, "v": 3, "length": 10}}
]}`

func writeSquare(t *testing.T) (nodes, edges string) {
	t.Helper()
	dir := t.TempDir()
	nodes = filepath.Join(dir, "nodes.geojson")
	edges = filepath.Join(dir, "edges.geojson")
	require.NoError(t, os.WriteFile(nodes, []byte(squareNodes), 0o600))
	require.NoError(t, os.WriteFile(edges, []byte(squareEdges), 0o600))
	return nodes, edges
}

func TestRun_JSONWithExact(t *testing.T) {
	nodes, edges := writeSquare(t)
	metricsFile := filepath.Join(t.TempDir(), "roadblock.prom")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-nodes", nodes, "-edges", edges,
		"-from", "1", "-to", "3", "-obstacles", "2",
		"-exact", "-metrics-file", metricsFile,
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var out struct {
		Outcome  string         `json:"outcome"`
		Path     [][2]float64   `json:"path"`
		Explored [][][2]float64 `json:"explored"`
		Nodes    []int64        `json:"nodes"`
		Length   float64        `json:"length"`
		Exact    struct {
			Length float64 `json:"length"`
			Ratio  float64 `json:"ratio"`
		} `json:"exact"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "found", out.Outcome)
	assert.Equal(t, []int64{1, 4, 3}, out.Nodes)
	assert.Equal(t, [2]float64{0, 0}, out.Path[0])
	assert.Equal(t, [2]float64{1, 1}, out.Path[len(out.Path)-1])
	assert.NotEmpty(t, out.Explored)
	assert.Equal(t, 20.0, out.Exact.Length)
	assert.Equal(t, 1.0, out.Exact.Ratio)

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `route_searches_total{outcome="found"} 1`)
}

func TestRun_GeoJSONOutput(t *testing.T) {
	nodes, edges := writeSquare(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-nodes", nodes, "-edges", edges, "-from", "1", "-to", "3", "-format", "geojson",
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.True(t, strings.Contains(stdout.String(), `"FeatureCollection"`))
	assert.True(t, strings.Contains(stdout.String(), `"LineString"`))
}

func TestRun_NoRouteAndUsageErrors(t *testing.T) {
	nodes, edges := writeSquare(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-nodes", nodes, "-edges", edges, "-from", "1", "-to", "3", "-obstacles", "2,4",
	}, &stdout, &stderr)
	assert.Equal(t, exitNoRoute, code)
	assert.Contains(t, stdout.String(), `"no_path"`)

	code = run(context.Background(), []string{"-nodes", nodes, "-edges", edges, "-from", "1", "-to", "99"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)

	code = run(context.Background(), []string{"-from", "1", "-to", "3"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)

	code = run(context.Background(), []string{"-format", "xml"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
}

func TestRun_EnvFile(t *testing.T) {
	nodes, edges := writeSquare(t)
	env := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(env, []byte("ROADBLOCK_NODES="+nodes+"\nROADBLOCK_EDGES="+edges+"\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("ROADBLOCK_NODES")
		_ = os.Unsetenv("ROADBLOCK_EDGES")
	})

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=" + env, "-from", "2", "-to", "4"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
}

func TestLookupFlag(t *testing.T) {
	assert.Equal(t, "a.env", lookupFlag([]string{"-x", "-env", "a.env"}, "env"))
	assert.Equal(t, "b.env", lookupFlag([]string{"--env=b.env"}, "env"))
	assert.Equal(t, "", lookupFlag([]string{"-environment", "c"}, "env"))
}
