// Package loader builds road graphs from geographic data sources.
//
// Two formats are supported:
//
//   - GeoJSON, as exported by osmnx: a node FeatureCollection of Points and an
//     edge FeatureCollection of LineStrings carrying u, v, length and an
//     optional oneway property (LoadGeoJSON).
//   - OpenStreetMap XML: every way tagged highway=* becomes a chain of edges
//     between consecutive way nodes, with haversine lengths in meters
//     (LoadOSM).
//
// Malformed records never abort a load. A node without usable coordinates, an
// edge referencing a missing node or an edge without a usable length is
// skipped, counted in the Report and logged at warn level.
package loader

import (
	"context"
	"errors"
	"strings"

	"github.com/katalvlaran/roadblock/bfs"
	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/internal/logging"
)

// Sentinel errors returned by the loaders.
var (
	// ErrNilReader indicates that a required input reader was nil.
	ErrNilReader = errors.New("loader: reader is nil")

	// ErrEmptyGraph indicates that no usable node survived the load.
	ErrEmptyGraph = errors.New("loader: no usable nodes")
)

// Skip reasons recorded in Report.Skipped.
const (
	ReasonNodeNoID       = "node_missing_id"
	ReasonNodeBadCoord   = "node_bad_coordinates"
	ReasonNodeDuplicate  = "node_duplicate"
	ReasonEdgeNoEndpoint = "edge_missing_endpoint"
	ReasonEdgeBadLength  = "edge_bad_length"
	ReasonEdgeSelfLoop   = "edge_self_loop"
)

// Report summarizes one load.
type Report struct {
	Nodes   int            // nodes added to the graph
	Edges   int            // edges added to the graph (before mirroring)
	Skipped map[string]int // skipped records by reason

	Components       int // weakly connected components
	LargestComponent int // nodes in the largest component
}

// SkippedTotal returns the number of skipped records of every kind.
func (r Report) SkippedTotal() int {
	var n int
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// connectivity fills the component counts and warns when the network is not
// one piece.
func (r *Report) connectivity(ctx context.Context, g *core.Graph, log logging.Logger) {
	comps, err := bfs.Components(g, bfs.WithContext(ctx))
	if err != nil {
		log.Warn(ctx, "component scan aborted", logging.Err(err))
		return
	}
	r.Components = len(comps)
	if len(comps) > 0 {
		r.LargestComponent = len(comps[0])
	}
	if r.Components > 1 {
		log.Warn(ctx, "road network is disconnected",
			logging.Int("components", r.Components),
			logging.Int("largest", r.LargestComponent),
		)
	}
}

func (r *Report) skip(reason string) {
	if r.Skipped == nil {
		r.Skipped = make(map[string]int)
	}
	r.Skipped[reason]++
}

// Options configures the loaders.
type Options struct {
	// Directed makes every edge one-way in its stored direction, as in an
	// osmnx MultiDiGraph export. When false, edges are two-way unless tagged
	// oneway.
	Directed bool

	// Highways restricts LoadOSM to these highway=* values; empty means all.
	Highways map[string]struct{}

	// Logger receives per-record warnings and a summary line.
	Logger logging.Logger
}

// Option represents a functional option for configuring a loader.
type Option func(*Options)

// WithDirected treats every edge as one-way in its stored direction.
func WithDirected(directed bool) Option {
	return func(o *Options) {
		o.Directed = directed
	}
}

// WithHighways keeps only OSM ways whose highway tag is one of kinds.
func WithHighways(kinds ...string) Option {
	return func(o *Options) {
		if len(kinds) == 0 {
			o.Highways = nil
			return
		}
		o.Highways = make(map[string]struct{}, len(kinds))
		for _, k := range kinds {
			o.Highways[strings.ToLower(k)] = struct{}{}
		}
	}
}

// WithLogger sets the logger; nil means discard.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// DefaultOptions returns two-way edges, every highway kind and a no-op logger.
func DefaultOptions() Options {
	return Options{Logger: logging.Noop()}
}

func buildOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Noop()
	}
	return cfg
}

// parseOneway interprets an OSM oneway value. reverse is true for "-1", which
// means traffic flows against the stored node order.
func parseOneway(v string) (oneway, reverse bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return true, true
	default:
		return false, false
	}
}
