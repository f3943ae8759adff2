// Package core provides the in-memory road network used by the routing
// packages: nodes with WGS84 coordinates and edges with a length in meters
// and an optional curved geometry.
//
// The network is built once and then frozen:
//
//   - Builder collects nodes and edges (AddNode, AddEdge) under a mutex, so
//     loaders may feed it from several goroutines.
//   - Build() returns an immutable *Graph. A Graph has no mutators; any
//     number of searches may read it concurrently without coordination.
//
// Configuration Options (GraphOption):
//
//	– WithDirected(defaultDirected bool)
//	    Default orientation of new edges. Two-way edges are mirrored into a
//	    second arc whose geometry is reversed.
//
//	– WithMixedEdges()
//	    Allows per-edge overrides via WithEdgeDirected().
//
// EdgeOptions:
//
//	– WithEdgeDirected(directed bool)   one-way / two-way override (mixed mode only)
//	– WithGeometry(orb.LineString)      curved shape in (lon, lat) order
//
// Parallel edges:
//
//	Real road data carries several physical edges between the same pair of
//	junctions. EdgeCost(u, v) returns the minimum length among them and
//	EdgeGeometry(u, v) returns the shape of that same edge; ties resolve to
//	the edge added first.
//
// Query Methods:
//
//	Contains(id) bool                          // O(1)
//	Coordinates(id) (lat, lon, ok)             // O(1)
//	Neighbors(id) []int64                      // successors, ascending
//	InNeighbors(id) []int64                    // predecessors, ascending
//	EdgeCost(u, v) float64                     // +Inf when no arc
//	EdgeGeometry(u, v) (orb.LineString, bool)  // copy of the min-length arc shape
//	Stats() Stats                              // O(V)
package core
