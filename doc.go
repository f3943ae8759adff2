// Package roadblock answers shortest-route queries over a road network while
// a per-query set of nodes is impassable.
//
// The module is organized as small packages, each usable on its own:
//
//	core/      immutable road graph (nodes with coordinates, parallel-edge aware arcs)
//	geo/       haversine distance in kilometres
//	obstacle/  immutable obstacle sets and a concurrency-safe obstacle store
//	heuristic/ great-circle estimate with an obstacle proximity penalty
//	astar/     bidirectional A* with a single (f, seq)-ordered queue
//	dijkstra/  exhaustive single-source search, the exact baseline
//	route/     FindRoute plus (lat, lon) materialization and GeoJSON output
//	loader/    graph loading from osmnx GeoJSON and OpenStreetMap XML
//	bfs/       hop-count reachability and connected components
//
// A typical query:
//
//	g, _, err := loader.LoadOSM(ctx, f)
//	if err != nil {
//	    return err
//	}
//	r, err := route.FindRoute(g, src, dst, obstacle.NewSet(blocked...))
//	if err != nil {
//	    return err // unknown endpoint
//	}
//	if r.Found() {
//	    fmt.Println(r.Length, r.Path)
//	}
//
// The graph is never mutated after Build, and every search owns its state,
// so any number of queries may share one graph concurrently.
package roadblock
