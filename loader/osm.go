package loader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/geo"
	"github.com/katalvlaran/roadblock/internal/logging"
)

// LoadOSM builds a graph from OpenStreetMap XML.
//
// Only ways tagged highway=* (optionally restricted by WithHighways) are
// kept, and only the nodes they reference become graph nodes. Each pair of
// consecutive way nodes becomes an edge whose length is the haversine
// distance in meters. oneway=yes|true|1 makes the edge one-way in way order;
// oneway=-1 makes it one-way against way order. The context cancels decoding.
func LoadOSM(ctx context.Context, r io.Reader, opts ...Option) (*core.Graph, Report, error) {
	cfg := buildOptions(opts)
	var rep Report
	if r == nil {
		return nil, rep, ErrNilReader
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.Logger

	// OSM files list nodes before the ways that reference them, but ways may
	// still reference nodes outside an extract; collect both, then resolve.
	coords := make(map[osm.NodeID][2]float64)
	var ways []*osm.Way

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			coords[o.ID] = [2]float64{o.Lat, o.Lon}
		case *osm.Way:
			if keepWay(o, cfg.Highways) {
				ways = append(ways, o)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, rep, fmt.Errorf("loader: osm decode: %w", err)
	}

	b := core.NewBuilder(core.WithDirected(cfg.Directed), core.WithMixedEdges())
	ensureNode := func(id osm.NodeID) bool {
		nid := int64(id)
		if b.HasNode(nid) {
			return true
		}
		c, ok := coords[id]
		if !ok {
			return false
		}
		if err := b.AddNode(nid, c[0], c[1]); err != nil {
			rep.skip(ReasonNodeBadCoord)
			log.Warn(ctx, "skipping node", logging.Int64("node", nid), logging.Err(err))
			return false
		}
		rep.Nodes++
		return true
	}

	for _, w := range ways {
		oneway, reverse := parseOneway(w.Tags.Find("oneway"))
		var eopts []core.EdgeOption
		if !cfg.Directed && oneway {
			eopts = append(eopts, core.WithEdgeDirected(true))
		}

		for i := 1; i < len(w.Nodes); i++ {
			a, z := w.Nodes[i-1].ID, w.Nodes[i].ID
			if a == z {
				rep.skip(ReasonEdgeSelfLoop)
				continue
			}
			if !ensureNode(a) || !ensureNode(z) {
				rep.skip(ReasonEdgeNoEndpoint)
				log.Warn(ctx, "skipping way segment with unknown node",
					logging.Int64("way", int64(w.ID)),
					logging.Int64("from", int64(a)),
					logging.Int64("to", int64(z)),
				)
				continue
			}

			ca, cz := coords[a], coords[z]
			length := geo.Haversine(ca[0], ca[1], cz[0], cz[1]) * geo.MetersPerKm
			from, to := int64(a), int64(z)
			if reverse {
				from, to = to, from
			}
			if err := b.AddEdge(from, to, length, eopts...); err != nil {
				rep.skip(ReasonEdgeBadLength)
				log.Warn(ctx, "skipping way segment", logging.Int64("way", int64(w.ID)), logging.Err(err))
				continue
			}
			rep.Edges++
		}
	}
	if rep.Nodes == 0 {
		return nil, rep, ErrEmptyGraph
	}

	g := b.Build()
	rep.connectivity(ctx, g, log)
	log.Info(ctx, "osm graph loaded",
		logging.Int("ways", len(ways)),
		logging.Int("nodes", rep.Nodes),
		logging.Int("edges", rep.Edges),
		logging.Int("skipped", rep.SkippedTotal()),
		logging.Int("components", rep.Components),
	)
	return g, rep, nil
}

func keepWay(w *osm.Way, highways map[string]struct{}) bool {
	kind := strings.ToLower(w.Tags.Find("highway"))
	if kind == "" {
		return false
	}
	if len(highways) == 0 {
		return true
	}
	_, ok := highways[kind]
	return ok
}
