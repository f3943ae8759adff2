// Package observability wires Prometheus metrics and OpenTelemetry tracing
// for the routing service.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchCollector bundles the Prometheus metrics recorded per route query
// and the gauges describing the loaded network.
type SearchCollector struct {
	gatherer prometheus.Gatherer

	Searches      *prometheus.CounterVec
	Durations     *prometheus.HistogramVec
	ExploredEdges prometheus.Histogram

	GraphNodes prometheus.Gauge
	GraphArcs  prometheus.Gauge
	Obstacles  prometheus.Gauge
}

// NewSearchCollector registers search metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSearchCollector(reg prometheus.Registerer) (*SearchCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	searches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_searches_total",
		Help: "Total number of route queries, labeled by outcome.",
	}, []string{"outcome"}), "route_searches_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "route_search_duration_seconds",
		Help:    "Route query latency in seconds, labeled by outcome.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"outcome"}), "route_search_duration_seconds")
	if err != nil {
		return nil, err
	}

	explored, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_search_explored_edges",
		Help:    "Number of improving relaxations recorded per route query.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}), "route_search_explored_edges")
	if err != nil {
		return nil, err
	}

	nodes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "route_graph_nodes",
		Help: "Number of nodes in the loaded road network.",
	}), "route_graph_nodes")
	if err != nil {
		return nil, err
	}
	arcs, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "route_graph_arcs",
		Help: "Number of directed arcs in the loaded road network.",
	}), "route_graph_arcs")
	if err != nil {
		return nil, err
	}
	obstacles, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "route_obstacles_active",
		Help: "Number of nodes currently marked as obstacles.",
	}), "route_obstacles_active")
	if err != nil {
		return nil, err
	}

	return &SearchCollector{
		gatherer:      gatherer,
		Searches:      searches,
		Durations:     durations,
		ExploredEdges: explored,
		GraphNodes:    nodes,
		GraphArcs:     arcs,
		Obstacles:     obstacles,
	}, nil
}

// ObserveSearch records one finished query. A nil collector is a no-op.
func (c *SearchCollector) ObserveSearch(outcome string, took time.Duration, explored int) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(outcome).Inc()
	c.Durations.WithLabelValues(outcome).Observe(took.Seconds())
	c.ExploredEdges.Observe(float64(explored))
}

// SetGraph publishes the size of the loaded network.
func (c *SearchCollector) SetGraph(nodes, arcs int) {
	if c == nil {
		return
	}
	c.GraphNodes.Set(float64(nodes))
	c.GraphArcs.Set(float64(arcs))
}

// SetObstacles publishes the size of the current obstacle set.
func (c *SearchCollector) SetObstacles(n int) {
	if c == nil {
		return
	}
	c.Obstacles.Set(float64(n))
}

// WriteToTextfile dumps every metric of the collector's registry to path in
// the text exposition format, for node_exporter's textfile collector.
func (c *SearchCollector) WriteToTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
