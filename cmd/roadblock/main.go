// Command roadblock loads a road network, marks obstacle nodes and prints the
// route between two nodes together with the edges the search explored.
//
// Usage:
//
//	roadblock -osm city.osm -from 101 -to 202 -obstacles 150,151
//	roadblock -nodes nodes.geojson -edges edges.geojson -from 1 -to 3 -format geojson
//
// Settings may also come from ROADBLOCK_* environment variables or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/roadblock/core"
	"github.com/katalvlaran/roadblock/heuristic"
	"github.com/katalvlaran/roadblock/internal/config"
	"github.com/katalvlaran/roadblock/internal/logging"
	"github.com/katalvlaran/roadblock/internal/observability"
	"github.com/katalvlaran/roadblock/internal/service"
	"github.com/katalvlaran/roadblock/loader"
	"github.com/katalvlaran/roadblock/route"
)

// Exit codes.
const (
	exitOK      = 0
	exitNoRoute = 1
	exitUsage   = 2
	exitFailure = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type exactResult struct {
	Length float64 `json:"length"`
	Nodes  []int64 `json:"nodes"`
	Ratio  float64 `json:"ratio"`
}

type output struct {
	Outcome string `json:"outcome"`
	*route.Route
	Exact *exactResult `json:"exact,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roadblock", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("env", "", "optional .env file (default: ./.env when present)")

	// The .env file seeds flag defaults, so it is located before full parsing.
	if path := lookupFlag(args, "env"); path != "" {
		if err := config.LoadDotEnv(path); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	} else if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitUsage
	}

	fs.StringVar(&cfg.NodesPath, "nodes", cfg.NodesPath, "GeoJSON node FeatureCollection")
	fs.StringVar(&cfg.EdgesPath, "edges", cfg.EdgesPath, "GeoJSON edge FeatureCollection")
	fs.StringVar(&cfg.OSMPath, "osm", cfg.OSMPath, "OpenStreetMap XML file")
	fs.BoolVar(&cfg.Directed, "directed", cfg.Directed, "treat every edge as one-way in stored direction")
	fs.Float64Var(&cfg.ObstacleRadius, "radius", cfg.ObstacleRadius, "obstacle penalty radius in km")
	fs.Float64Var(&cfg.PenaltyScale, "penalty", cfg.PenaltyScale, "obstacle penalty scale")
	fs.IntVar(&cfg.MaxExpansions, "max-expansions", cfg.MaxExpansions, "cap on queue pops per query (0 = unlimited)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-query time limit (0 = none)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&cfg.Tracing.Enabled, "trace", cfg.Tracing.Enabled, "print OpenTelemetry spans to stderr")
	from := fs.Int64("from", 0, "source node id")
	to := fs.Int64("to", 0, "destination node id")
	obstacleList := fs.String("obstacles", "", "comma separated obstacle node ids (added to ROADBLOCK_OBSTACLES)")
	format := fs.String("format", "json", "output format: json or geojson")
	exact := fs.Bool("exact", false, "also run exhaustive Dijkstra and report the length ratio")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *format != "json" && *format != "geojson" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return exitUsage
	}
	if cfg.ObstacleRadius < 0 || cfg.PenaltyScale < 0 || cfg.MaxExpansions < 0 {
		fmt.Fprintln(stderr, "radius, penalty and max-expansions must be non-negative")
		return exitUsage
	}
	extra, err := config.ParseIDs(*obstacleList)
	if err != nil {
		fmt.Fprintln(stderr, "obstacles:", err)
		return exitUsage
	}
	cfg.Obstacles = append(cfg.Obstacles, extra...)

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})

	cfg.Tracing.Writer = stderr
	shutdown, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		log.Error(ctx, "tracing setup failed", logging.Err(err))
		return exitFailure
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	g, err := loadGraph(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "graph load failed", logging.Err(err))
		if errors.Is(err, errNoSource) {
			return exitUsage
		}
		return exitFailure
	}

	metrics, err := observability.NewSearchCollector(prometheus.NewRegistry())
	if err != nil {
		log.Error(ctx, "metrics setup failed", logging.Err(err))
		return exitFailure
	}

	svc, err := service.New(g,
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithHeuristicOptions(
			heuristic.WithObstacleRadius(cfg.ObstacleRadius),
			heuristic.WithPenaltyScale(cfg.PenaltyScale),
		),
		service.WithMaxExpansions(cfg.MaxExpansions),
		service.WithTimeout(cfg.Timeout),
		service.WithObstacles(cfg.Obstacles...),
	)
	if err != nil {
		log.Error(ctx, "service setup failed", logging.Err(err))
		return exitFailure
	}

	r, err := svc.Route(ctx, *from, *to)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	out := output{Outcome: r.Outcome.String(), Route: r}
	if *exact {
		length, nodes, ok, err := svc.ExactLength(ctx, *from, *to)
		if err != nil {
			log.Error(ctx, "exact search failed", logging.Err(err))
			return exitFailure
		}
		if ok {
			out.Exact = &exactResult{Length: length, Nodes: nodes}
			if length > 0 && r.Found() {
				out.Exact.Ratio = r.Length / length
			} else if r.Found() {
				out.Exact.Ratio = 1
			}
		}
	}

	if err := writeOutput(stdout, *format, out); err != nil {
		log.Error(ctx, "write output failed", logging.Err(err))
		return exitFailure
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteToTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "metrics dump failed", logging.Err(err))
			return exitFailure
		}
	}

	if !r.Found() {
		return exitNoRoute
	}
	return exitOK
}

var errNoSource = errors.New("no graph source: set -osm or both -nodes and -edges")

func loadGraph(ctx context.Context, cfg config.Config, log logging.Logger) (*core.Graph, error) {
	opts := []loader.Option{loader.WithDirected(cfg.Directed), loader.WithLogger(log)}

	switch {
	case cfg.OSMPath != "":
		f, err := os.Open(cfg.OSMPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		g, _, err := loader.LoadOSM(ctx, f, opts...)
		return g, err

	case cfg.NodesPath != "" && cfg.EdgesPath != "":
		nodes, err := os.Open(cfg.NodesPath)
		if err != nil {
			return nil, err
		}
		defer nodes.Close()
		edges, err := os.Open(cfg.EdgesPath)
		if err != nil {
			return nil, err
		}
		defer edges.Close()
		g, _, err := loader.LoadGeoJSON(nodes, edges, opts...)
		return g, err

	default:
		return nil, errNoSource
	}
}

func writeOutput(w io.Writer, format string, out output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if format == "geojson" {
		return enc.Encode(out.Route.FeatureCollection())
	}
	return enc.Encode(out)
}

// lookupFlag finds -name value or -name=value in args without parsing the
// rest of the command line.
func lookupFlag(args []string, name string) string {
	for i, a := range args {
		for _, prefix := range []string{"-" + name, "--" + name} {
			if a == prefix && i+1 < len(args) {
				return args[i+1]
			}
			if len(a) > len(prefix) && a[:len(prefix)+1] == prefix+"=" {
				return a[len(prefix)+1:]
			}
		}
	}
	return ""
}
