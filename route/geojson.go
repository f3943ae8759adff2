package route

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders r as GeoJSON: one LineString feature for the
// route (omitted when none was found) and one MultiLineString feature for the
// explored edges. Coordinates are swapped back to GeoJSON (lon, lat) order.
func (r *Route) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if r == nil {
		return fc
	}

	if len(r.Path) > 0 {
		f := geojson.NewFeature(toLineString(r.Path))
		f.Properties["kind"] = "route"
		f.Properties["outcome"] = r.Outcome.String()
		f.Properties["length_m"] = r.Length
		f.Properties["nodes"] = r.Nodes
		fc.Append(f)
	}

	explored := make(orb.MultiLineString, 0, len(r.Explored))
	for _, seg := range r.Explored {
		explored = append(explored, toLineString(seg))
	}
	f := geojson.NewFeature(explored)
	f.Properties["kind"] = "explored"
	f.Properties["outcome"] = r.Outcome.String()
	f.Properties["edges"] = len(r.Explored)
	fc.Append(f)

	return fc
}

func toLineString(coords []Coord) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point{c.Lon(), c.Lat()}
	}

	return ls
}
