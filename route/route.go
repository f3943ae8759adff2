// Package route turns search results into coordinates a caller can draw.
//
// FindRoute is the single entry point collaborators need: it runs the
// obstacle-aware bidirectional search and materializes both the route and the
// explored edges as (lat, lon) coordinates. Edge geometry is stored in GeoJSON
// order (lon, lat) and is swapped here.
package route

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/roadblock/astar"
	"github.com/katalvlaran/roadblock/obstacle"
)

// ErrInvalidEndpoint indicates that source or destination is not a graph node.
// FindRoute errors wrap both it and astar.ErrNodeNotFound.
var ErrInvalidEndpoint = errors.New("route: invalid endpoint")

// Graph is the road network view needed to search and materialize.
// *core.Graph satisfies it.
type Graph interface {
	astar.Graph
	EdgeGeometry(u, v int64) (orb.LineString, bool)
}

// Coord is a (lat, lon) pair in degrees.
type Coord [2]float64

// Lat returns the latitude.
func (c Coord) Lat() float64 { return c[0] }

// Lon returns the longitude.
func (c Coord) Lon() float64 { return c[1] }

// Route is the answer to one query.
type Route struct {
	Outcome astar.Outcome `json:"-"`

	// Path is the route polyline; nil when no route was found.
	Path []Coord `json:"path"`

	// Explored holds one polyline per improving relaxation, in search order.
	Explored [][]Coord `json:"explored"`

	// Nodes lists the node ids of the route, source first.
	Nodes []int64 `json:"nodes,omitempty"`

	// Length is the route length in meters; 0 when no route was found.
	Length float64 `json:"length"`

	// Expansions counts queue pops performed by the search.
	Expansions int `json:"expansions"`

	// ExploredEdges are the raw relaxations behind Explored.
	ExploredEdges []astar.ExploredEdge `json:"-"`
}

// Found reports whether the route holds a path.
func (r *Route) Found() bool { return r != nil && r.Outcome == astar.OutcomeFound }

// FindRoute searches g for a route from source to destination that avoids
// obstacles and materializes the result.
//
// Unknown endpoints return an error wrapping ErrInvalidEndpoint. An endpoint
// that is itself an obstacle is not an error: the Route has Outcome
// astar.OutcomeBlockedEndpoint, a nil Path and an empty Explored list.
func FindRoute(g Graph, source, destination int64, obstacles obstacle.Set, opts ...astar.Option) (*Route, error) {
	if g == nil {
		return nil, astar.ErrNilGraph
	}

	res, err := astar.Search(g, source, destination, obstacles, opts...)
	if err != nil {
		if errors.Is(err, astar.ErrNodeNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
		}

		return nil, err
	}

	path, explored := Materialize(g, res.Path, res.Explored)
	r := &Route{
		Outcome:       res.Outcome,
		Path:          path,
		Explored:      explored,
		Expansions:    res.Expansions,
		ExploredEdges: res.Explored,
	}
	if res.Found() {
		r.Nodes = res.Path
		r.Length = res.Cost
	}

	return r, nil
}

// Materialize converts a node path and explored edges into coordinates.
//
// For each consecutive pair of path nodes the arc's curved geometry is emitted
// when it has one, otherwise the two endpoint coordinates. Segments are
// concatenated without removing the shared boundary point. Each explored edge
// becomes its own polyline, following the arc it relaxed (see
// astar.ExploredEdge.Arc). pathCoords is nil for an empty path.
func Materialize(g Graph, path []int64, explored []astar.ExploredEdge) (pathCoords []Coord, exploredCoords [][]Coord) {
	if len(path) == 1 {
		if c, ok := nodeCoord(g, path[0]); ok {
			pathCoords = []Coord{c}
		}
	}
	for i := 1; i < len(path); i++ {
		pathCoords = append(pathCoords, segment(g, path[i-1], path[i])...)
	}

	exploredCoords = make([][]Coord, 0, len(explored))
	for _, e := range explored {
		tail, head := e.Arc()
		if seg := segment(g, tail, head); len(seg) > 0 {
			exploredCoords = append(exploredCoords, seg)
		}
	}

	return pathCoords, exploredCoords
}

// segment returns the coordinates of arc u→v.
func segment(g Graph, u, v int64) []Coord {
	if ls, ok := g.EdgeGeometry(u, v); ok {
		out := make([]Coord, len(ls))
		for i, p := range ls {
			out[i] = Coord{p.Lat(), p.Lon()}
		}

		return out
	}

	cu, okU := nodeCoord(g, u)
	cv, okV := nodeCoord(g, v)
	if !okU || !okV {
		return nil
	}

	return []Coord{cu, cv}
}

func nodeCoord(g Graph, id int64) (Coord, bool) {
	lat, lon, ok := g.Coordinates(id)

	return Coord{lat, lon}, ok
}
