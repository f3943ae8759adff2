// Package core defines the road network types used by every routing package:
// Node, Edge, the mutable Builder used by loaders, and the immutable Graph
// handed to searches.
//
// This file declares Node, Edge, GraphOption, EdgeOption, sentinel errors,
// and the NewBuilder constructor.
//
// Errors:
//
//	ErrNodeNotFound   - an edge endpoint (or queried node) does not exist.
//	ErrDuplicateNode  - a node id was added twice with different coordinates.
//	ErrBadCoordinate  - latitude/longitude outside the valid WGS84 range or NaN.
//	ErrBadLength      - edge length is negative, NaN or +Inf.
//	ErrMixedEdgesNotAllowed - per-edge direction override on a graph without mixed mode.
package core

import (
	"errors"

	"github.com/paulmach/orb"
)

// Sentinel errors for core graph construction.
var (
	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrDuplicateNode indicates a node id was registered twice with different coordinates.
	ErrDuplicateNode = errors.New("core: duplicate node with different coordinates")

	// ErrBadCoordinate indicates a latitude/longitude that is NaN or out of range.
	ErrBadCoordinate = errors.New("core: bad coordinate")

	// ErrBadLength indicates an edge length that cannot be used as a route cost.
	ErrBadLength = errors.New("core: bad edge length")

	// ErrMixedEdgesNotAllowed indicates a per-edge direction override without mixed mode.
	ErrMixedEdgesNotAllowed = errors.New("core: mixed-mode per-edge overrides not allowed")
)

// Node is a road network junction.
type Node struct {
	// ID is unique within one graph snapshot.
	ID int64

	// Lat and Lon are WGS84 degrees.
	Lat float64
	Lon float64
}

// Point returns the node position in orb order (lon, lat).
func (n Node) Point() orb.Point { return orb.Point{n.Lon, n.Lat} }

// Edge is one physical road segment between two nodes.
//
// Several Edges may connect the same ordered pair (divided carriageways,
// service roads). Routing costs use the shortest of them; see Graph.EdgeCost.
type Edge struct {
	// From and To are node ids; the edge is traversable From→To,
	// and also To→From unless Directed.
	From int64
	To   int64

	// Length is the segment length in meters.
	Length float64

	// Geometry is the optional curved shape in (lon, lat) order, From first.
	// Nil means the segment is a straight line between its endpoints.
	Geometry orb.LineString

	// Directed marks a one-way segment.
	Directed bool
}

// GraphOption configures a Builder before any node is added.
type GraphOption func(b *Builder)

// WithDirected sets the default directedness of new edges
// (true = one-way, false = two-way and mirrored).
func WithDirected(defaultDirected bool) GraphOption {
	return func(b *Builder) { b.directed = defaultDirected }
}

// WithMixedEdges lets WithEdgeDirected override the default per edge.
func WithMixedEdges() GraphOption {
	return func(b *Builder) { b.allowMixed = true }
}

// EdgeOption configures an individual edge when added.
type EdgeOption func(e *Edge, override *bool)

// WithEdgeDirected overrides the builder default direction for this edge (mixed mode only).
func WithEdgeDirected(directed bool) EdgeOption {
	return func(e *Edge, override *bool) {
		e.Directed = directed
		*override = true
	}
}

// WithGeometry attaches a curved (lon, lat) shape to the edge.
// Shapes with fewer than two points are ignored.
func WithGeometry(ls orb.LineString) EdgeOption {
	return func(e *Edge, _ *bool) {
		if len(ls) < 2 {
			return
		}
		e.Geometry = ls.Clone()
	}
}
