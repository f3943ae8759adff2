// Package service hosts the router: it owns one loaded road graph and the
// current obstacle store, and answers route queries against a per-query
// snapshot of the obstacles. Every query is logged, measured and traced.
// A Service is safe for concurrent use.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/roadblock/astar"
	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/dijkstra"
	"github.com/katalvlaran/roadblock/heuristic"
	"github.com/katalvlaran/roadblock/internal/logging"
	"github.com/katalvlaran/roadblock/internal/observability"
	"github.com/katalvlaran/roadblock/obstacle"
	"github.com/katalvlaran/roadblock/route"
)

// ErrNilGraph indicates that New was given no graph.
var ErrNilGraph = errors.New("service: graph is nil")

// outcomeInvalid labels queries rejected before the search ran.
const outcomeInvalid = "invalid_endpoint"

// Options configures a Service.
type Options struct {
	Logger        logging.Logger
	Metrics       *observability.SearchCollector
	Tracer        trace.Tracer
	Heuristic     []heuristic.Option
	MaxExpansions int
	Timeout       time.Duration
	Obstacles     []int64
}

// Option represents a functional option for configuring a Service.
type Option func(*Options)

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMetrics records every query on c.
func WithMetrics(c *observability.SearchCollector) Option { return func(o *Options) { o.Metrics = c } }

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option { return func(o *Options) { o.Tracer = t } }

// WithHeuristicOptions tunes the obstacle penalty.
func WithHeuristicOptions(opts ...heuristic.Option) Option {
	return func(o *Options) { o.Heuristic = append(o.Heuristic, opts...) }
}

// WithMaxExpansions caps queue pops per query; 0 means unlimited.
func WithMaxExpansions(n int) Option { return func(o *Options) { o.MaxExpansions = n } }

// WithTimeout bounds each query in wall-clock time; 0 means unbounded.
func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

// WithObstacles seeds the obstacle store. Ids unknown to the graph are dropped.
func WithObstacles(ids ...int64) Option {
	return func(o *Options) { o.Obstacles = append(o.Obstacles, ids...) }
}

// Service answers route queries over one immutable graph.
type Service struct {
	graph     *core.Graph
	store     *obstacle.Store
	heuristic *heuristic.ObstacleAware
	log       logging.Logger
	metrics   *observability.SearchCollector
	tracer    trace.Tracer

	maxExpansions int
	timeout       time.Duration
}

// New builds a Service for g.
func New(g *core.Graph, opts ...Option) (*Service, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := Options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Noop()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(observability.TracerName)
	}
	if cfg.MaxExpansions < 0 {
		cfg.MaxExpansions = 0
	}

	s := &Service{
		graph:         g,
		store:         obstacle.NewStore(),
		heuristic:     heuristic.New(g, cfg.Heuristic...),
		log:           cfg.Logger,
		metrics:       cfg.Metrics,
		tracer:        cfg.Tracer,
		maxExpansions: cfg.MaxExpansions,
		timeout:       cfg.Timeout,
	}

	stats := g.Stats()
	s.metrics.SetGraph(stats.Nodes, stats.Arcs)
	if len(cfg.Obstacles) > 0 {
		s.SetObstacles(context.Background(), cfg.Obstacles)
	}
	s.metrics.SetObstacles(s.store.Len())

	return s, nil
}

// Graph returns the served graph.
func (s *Service) Graph() *core.Graph { return s.graph }

// Route answers one query against the obstacles active when it starts.
// Unknown endpoints return an error wrapping route.ErrInvalidEndpoint.
func (s *Service) Route(ctx context.Context, source, destination int64) (*route.Route, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, log := logging.WithQueryLogger(ctx, s.log)
	ctx, span := s.tracer.Start(ctx, "route.find", trace.WithAttributes(
		attribute.String("route.query_id", logging.QueryID(ctx)),
		attribute.Int64("route.source", source),
		attribute.Int64("route.destination", destination),
	))
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	obstacles := s.store.Snapshot()
	span.SetAttributes(attribute.Int("route.obstacles", obstacles.Len()))

	opts := []astar.Option{
		astar.WithHeuristic(s.heuristic),
		astar.WithContext(ctx),
	}
	if s.maxExpansions > 0 {
		opts = append(opts, astar.WithMaxExpansions(s.maxExpansions))
	}

	start := time.Now()
	r, err := route.FindRoute(s.graph, source, destination, obstacles, opts...)
	took := time.Since(start)
	if err != nil {
		s.metrics.ObserveSearch(outcomeInvalid, took, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcomeInvalid)
		log.Warn(ctx, "route query rejected",
			logging.Int64("source", source),
			logging.Int64("destination", destination),
			logging.Err(err),
		)
		return nil, err
	}

	outcome := r.Outcome.String()
	s.metrics.ObserveSearch(outcome, took, len(r.Explored))
	span.SetAttributes(
		attribute.String("route.outcome", outcome),
		attribute.Int("route.explored", len(r.Explored)),
		attribute.Int("route.expansions", r.Expansions),
		attribute.Float64("route.length_m", r.Length),
	)

	fields := []logging.Field{
		logging.Int64("source", source),
		logging.Int64("destination", destination),
		logging.String("outcome", outcome),
		logging.Int("explored", len(r.Explored)),
		logging.Int("obstacles", obstacles.Len()),
		logging.Float("took_ms", float64(took.Microseconds())/1000),
	}
	if r.Found() {
		log.Info(ctx, "route found", append(fields, logging.Float("length_m", r.Length), logging.Int("nodes", len(r.Nodes)))...)
	} else {
		log.Info(ctx, "no route", fields...)
	}

	return r, nil
}

// ExactLength runs the exhaustive Dijkstra search under the current obstacles
// and returns the optimal route length and node path. ok is false when the
// destination is unreachable.
func (s *Service) ExactLength(ctx context.Context, source, destination int64) (length float64, path []int64, ok bool, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := s.tracer.Start(ctx, "route.exact")
	defer span.End()

	for _, id := range [2]int64{source, destination} {
		if !s.graph.Contains(id) {
			err = fmt.Errorf("%w: node %d", route.ErrInvalidEndpoint, id)
			span.RecordError(err)
			return 0, nil, false, err
		}
	}

	obstacles := s.store.Snapshot()
	if obstacles.Contains(source) || obstacles.Contains(destination) {
		return 0, nil, false, nil
	}

	dist, prev, err := dijkstra.Dijkstra(s.graph, source,
		dijkstra.WithReturnPath(),
		dijkstra.WithObstacles(obstacles),
	)
	if err != nil {
		span.RecordError(err)
		return 0, nil, false, err
	}
	length, ok = dist[destination]
	if !ok {
		return 0, nil, false, nil
	}
	path, _ = dijkstra.PathTo(prev, source, destination)

	return length, path, true, nil
}

// SetObstacles replaces the obstacle set. Ids that are not graph nodes are
// dropped; the accepted ids are returned in ascending order.
func (s *Service) SetObstacles(ctx context.Context, ids []int64) []int64 {
	accepted := s.store.Replace(ids, s.graph.Contains)
	s.metrics.SetObstacles(len(accepted))
	dropped := 0
	for _, id := range ids {
		if !s.graph.Contains(id) {
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warn(ctx, "ignored obstacles outside the graph", logging.Int("dropped", dropped))
	}
	s.log.Info(ctx, "obstacles replaced", logging.Int("count", len(accepted)))

	return accepted
}

// AddObstacles marks graph nodes among ids as obstacles and returns how many
// were accepted.
func (s *Service) AddObstacles(ctx context.Context, ids ...int64) int {
	known := make([]int64, 0, len(ids))
	for _, id := range ids {
		if s.graph.Contains(id) {
			known = append(known, id)
		}
	}
	s.store.Add(known...)
	s.metrics.SetObstacles(s.store.Len())
	s.log.Debug(ctx, "obstacles added", logging.Int("accepted", len(known)))

	return len(known)
}

// RemoveObstacles clears ids from the obstacle set.
func (s *Service) RemoveObstacles(ctx context.Context, ids ...int64) {
	s.store.Remove(ids...)
	s.metrics.SetObstacles(s.store.Len())
	s.log.Debug(ctx, "obstacles removed", logging.Int("requested", len(ids)))
}

// ClearObstacles removes every obstacle.
func (s *Service) ClearObstacles(ctx context.Context) {
	s.store.Clear()
	s.metrics.SetObstacles(0)
	s.log.Debug(ctx, "obstacles cleared")
}

// Obstacles returns the current obstacle ids in ascending order.
func (s *Service) Obstacles() []int64 { return s.store.Snapshot().IDs() }
