// Package heuristic provides the remaining-cost estimates used by the
// bidirectional A* search.
//
// ObstacleAware combines the great-circle distance between two nodes with a
// proximity penalty for obstacles near the node being estimated:
//
//	h(a, b) = haversine(a, b) + Σ_{o ∈ obstacles, d(a,o) < radius} scale / d(a, o)
//
// Units follow geo.Haversine (kilometres) for both the base term and the
// radius, so the defaults (radius 0.1, scale 10) mean "within 100 m, add
// 10/d". The base term is a lower bound on road distance; the penalty is not.
// The penalty is a deliberate bias that steers the search away from blocked
// corridors, and with it active A* optimality is only approximate.
// Termination is unaffected: the estimate stays finite and non-negative
// except for a node sitting exactly on an obstacle (see Bind).
package heuristic

import (
	"math"

	"github.com/katalvlaran/roadblock/geo"
	"github.com/katalvlaran/roadblock/obstacle"
)

const (
	// DefaultObstacleRadius is the proximity (haversine units, km) within which
	// an obstacle penalizes a node.
	DefaultObstacleRadius = 0.1

	// DefaultPenaltyScale is the numerator of the per-obstacle penalty scale/d.
	DefaultPenaltyScale = 10.0
)

// Locator resolves node coordinates. *core.Graph satisfies it.
type Locator interface {
	Coordinates(id int64) (lat, lon float64, ok bool)
}

// Estimator estimates the remaining cost from a to b.
type Estimator func(a, b int64) float64

// Options tune the obstacle penalty.
type Options struct {
	ObstacleRadius float64 // penalty radius, ≥ 0
	PenaltyScale   float64 // penalty numerator, ≥ 0; 0 disables the penalty
}

// Option configures ObstacleAware.
type Option func(*Options)

// WithObstacleRadius sets the penalty radius. Panics on negative or NaN input.
func WithObstacleRadius(r float64) Option {
	return func(o *Options) {
		if r < 0 || math.IsNaN(r) {
			panic("heuristic: obstacle radius must be non-negative")
		}
		o.ObstacleRadius = r
	}
}

// WithPenaltyScale sets the penalty numerator. Panics on negative or NaN input.
func WithPenaltyScale(s float64) Option {
	return func(o *Options) {
		if s < 0 || math.IsNaN(s) {
			panic("heuristic: penalty scale must be non-negative")
		}
		o.PenaltyScale = s
	}
}

// DefaultOptions returns the radius/scale pair the router is tuned for.
func DefaultOptions() Options {
	return Options{
		ObstacleRadius: DefaultObstacleRadius,
		PenaltyScale:   DefaultPenaltyScale,
	}
}

// ObstacleAware is the haversine + obstacle-proximity heuristic.
type ObstacleAware struct {
	loc  Locator
	opts Options
}

// New returns an ObstacleAware heuristic over the coordinates of loc.
func New(loc Locator, opts ...Option) *ObstacleAware {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &ObstacleAware{loc: loc, opts: cfg}
}

// Options returns the effective configuration.
func (h *ObstacleAware) Options() Options { return h.opts }

// Estimate returns h(a, b) under obstacles. Searches should prefer Bind,
// which resolves obstacle coordinates once instead of on every call.
func (h *ObstacleAware) Estimate(a, b int64, obstacles obstacle.Set) float64 {
	return h.Bind(obstacles)(a, b)
}

// Bind resolves the coordinates of obstacles once and returns an Estimator
// for one search. Obstacles unknown to the Locator are skipped. Nodes unknown
// to the Locator estimate to 0.
//
// A node at distance 0 from an obstacle (same coordinates) gets +Inf: such a
// node is ordered after every finite entry but is still reachable.
func (h *ObstacleAware) Bind(obstacles obstacle.Set) Estimator {
	type point struct{ lat, lon float64 }

	var near []point
	if h.opts.PenaltyScale > 0 && h.opts.ObstacleRadius > 0 {
		// IDs() is sorted, so the penalty sum is evaluated in a fixed order.
		for _, id := range obstacles.IDs() {
			lat, lon, ok := h.loc.Coordinates(id)
			if !ok {
				continue
			}
			near = append(near, point{lat, lon})
		}
	}
	radius, scale := h.opts.ObstacleRadius, h.opts.PenaltyScale

	return func(a, b int64) float64 {
		latA, lonA, okA := h.loc.Coordinates(a)
		latB, lonB, okB := h.loc.Coordinates(b)
		if !okA || !okB {
			return 0
		}
		est := geo.Haversine(latA, lonA, latB, lonB)

		var d float64
		for _, o := range near {
			d = geo.Haversine(latA, lonA, o.lat, o.lon)
			if d >= radius {
				continue
			}
			if d == 0 {
				return math.Inf(1)
			}
			est += scale / d
		}

		return est
	}
}

// Zero is the null heuristic; A* with it degenerates to bidirectional Dijkstra.
type Zero struct{}

// Bind returns an Estimator that always answers 0.
func (Zero) Bind(obstacle.Set) Estimator {
	return func(int64, int64) float64 { return 0 }
}
