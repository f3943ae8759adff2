package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/internal/logging"
)

// LoadGeoJSON builds a graph from a node and an edge FeatureCollection.
//
// Node features are Points; the id comes from the feature id or the osmid
// property, and coordinates from the geometry (falling back to the y/x
// properties). Edge features carry u, v and length (meters) properties and an
// optional oneway flag. An edge LineString with more than two points is kept
// as the edge's curved geometry.
func LoadGeoJSON(nodes, edges io.Reader, opts ...Option) (*core.Graph, Report, error) {
	cfg := buildOptions(opts)
	var rep Report
	if nodes == nil || edges == nil {
		return nil, rep, ErrNilReader
	}

	nodeFC, err := readFeatureCollection(nodes)
	if err != nil {
		return nil, rep, fmt.Errorf("loader: nodes: %w", err)
	}
	edgeFC, err := readFeatureCollection(edges)
	if err != nil {
		return nil, rep, fmt.Errorf("loader: edges: %w", err)
	}

	ctx := context.Background()
	log := cfg.Logger
	b := core.NewBuilder(core.WithDirected(cfg.Directed), core.WithMixedEdges())

	for i, f := range nodeFC.Features {
		id, ok := featureNodeID(f)
		if !ok {
			rep.skip(ReasonNodeNoID)
			log.Warn(ctx, "skipping node without id", logging.Int("feature", i))
			continue
		}
		lat, lon, ok := featureLatLon(f)
		if !ok {
			rep.skip(ReasonNodeBadCoord)
			log.Warn(ctx, "skipping node without coordinates", logging.Int64("node", id))
			continue
		}
		if b.HasNode(id) {
			rep.skip(ReasonNodeDuplicate)
			log.Warn(ctx, "skipping duplicate node", logging.Int64("node", id))
			continue
		}
		if err := b.AddNode(id, lat, lon); err != nil {
			rep.skip(ReasonNodeBadCoord)
			log.Warn(ctx, "skipping node", logging.Int64("node", id), logging.Err(err))
			continue
		}
		rep.Nodes++
	}
	if rep.Nodes == 0 {
		return nil, rep, ErrEmptyGraph
	}

	for i, f := range edgeFC.Features {
		u, okU := toInt64(f.Properties["u"])
		v, okV := toInt64(f.Properties["v"])
		if !okU || !okV || !b.HasNode(u) || !b.HasNode(v) {
			rep.skip(ReasonEdgeNoEndpoint)
			log.Warn(ctx, "skipping edge with unknown endpoint", logging.Int("feature", i))
			continue
		}
		length, ok := toFloat(f.Properties["length"])
		if !ok || length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
			rep.skip(ReasonEdgeBadLength)
			log.Warn(ctx, "skipping edge without usable length",
				logging.Int64("u", u), logging.Int64("v", v))
			continue
		}

		var eopts []core.EdgeOption
		ls, curved := f.Geometry.(orb.LineString)
		curved = curved && len(ls) > 2
		oneway, reverse := featureOneway(f.Properties["oneway"])
		if !cfg.Directed && oneway {
			eopts = append(eopts, core.WithEdgeDirected(true))
		}
		if reverse {
			u, v = v, u
			if curved {
				ls = ls.Clone()
				ls.Reverse()
			}
		}
		if curved {
			eopts = append(eopts, core.WithGeometry(ls))
		}

		if err := b.AddEdge(u, v, length, eopts...); err != nil {
			rep.skip(ReasonEdgeBadLength)
			log.Warn(ctx, "skipping edge", logging.Int64("u", u), logging.Int64("v", v), logging.Err(err))
			continue
		}
		rep.Edges++
	}

	g := b.Build()
	rep.connectivity(ctx, g, log)
	log.Info(ctx, "geojson graph loaded",
		logging.Int("nodes", rep.Nodes),
		logging.Int("edges", rep.Edges),
		logging.Int("skipped", rep.SkippedTotal()),
		logging.Int("components", rep.Components),
	)
	return g, rep, nil
}

func readFeatureCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(raw)
}

func featureNodeID(f *geojson.Feature) (int64, bool) {
	if id, ok := toInt64(f.ID); ok {
		return id, true
	}
	return toInt64(f.Properties["osmid"])
}

func featureLatLon(f *geojson.Feature) (lat, lon float64, ok bool) {
	if p, isPoint := f.Geometry.(orb.Point); isPoint {
		return p.Lat(), p.Lon(), true
	}
	y, okY := toFloat(f.Properties["y"])
	x, okX := toFloat(f.Properties["x"])
	return y, x, okY && okX
}

func featureOneway(v any) (oneway, reverse bool) {
	switch t := v.(type) {
	case bool:
		return t, false
	case string:
		return parseOneway(t)
	case float64:
		return parseOneway(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return false, false
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > 1<<53 {
			return 0, false
		}
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		id, err := t.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
