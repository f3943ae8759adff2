// Package config reads runtime settings for the roadblock tool from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/roadblock/heuristic"
	"github.com/katalvlaran/roadblock/internal/observability"
)

// Environment variables understood by FromEnv.
const (
	EnvNodes          = "ROADBLOCK_NODES"
	EnvEdges          = "ROADBLOCK_EDGES"
	EnvOSM            = "ROADBLOCK_OSM"
	EnvDirected       = "ROADBLOCK_DIRECTED"
	EnvObstacles      = "ROADBLOCK_OBSTACLES"
	EnvObstacleRadius = "ROADBLOCK_OBSTACLE_RADIUS_KM"
	EnvPenaltyScale   = "ROADBLOCK_PENALTY_SCALE"
	EnvMaxExpansions  = "ROADBLOCK_MAX_EXPANSIONS"
	EnvTimeout        = "ROADBLOCK_TIMEOUT"
	EnvMetricsFile    = "ROADBLOCK_METRICS_FILE"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvTracing        = "ROADBLOCK_TRACING_ENABLED"
	EnvTracingRatio   = "ROADBLOCK_TRACING_SAMPLE_RATIO"
	EnvTracingService = "ROADBLOCK_TRACING_SERVICE_NAME"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Graph sources: either a GeoJSON node/edge pair or an OSM XML file.
	NodesPath string
	EdgesPath string
	OSMPath   string
	Directed  bool

	// Obstacles seeds the obstacle store.
	Obstacles []int64

	ObstacleRadius float64
	PenaltyScale   float64
	MaxExpansions  int
	Timeout        time.Duration

	MetricsFile string
	LogLevel    string
	LogFormat   string

	Tracing observability.TracingConfig
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ObstacleRadius: heuristic.DefaultObstacleRadius,
		PenaltyScale:   heuristic.DefaultPenaltyScale,
		LogLevel:       "info",
		LogFormat:      "text",
		Tracing: observability.TracingConfig{
			ServiceName: "roadblock",
			Exporter:    "stdout",
			SampleRatio: 1,
		},
	}
}

// LoadDotEnv loads the given .env files into the process environment without
// overriding variables that are already set. With no paths it tries ".env"
// and ignores its absence.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load %s: %w", strings.Join(paths, ","), err)
	}
	return nil
}

// FromEnv resolves Config from the process environment on top of Default.
// Every malformed variable is reported; the returned Config holds defaults for
// those fields.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	float := func(key string, dst *float64, min, max float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			if f < min || f > max {
				errs = append(errs, fmt.Errorf("%s: %v out of range [%v, %v]", key, f, min, max))
				return
			}
			*dst = f
		}
	}

	str(EnvNodes, &cfg.NodesPath)
	str(EnvEdges, &cfg.EdgesPath)
	str(EnvOSM, &cfg.OSMPath)
	boolean(EnvDirected, &cfg.Directed)
	str(EnvMetricsFile, &cfg.MetricsFile)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvLogFormat, &cfg.LogFormat)

	float(EnvObstacleRadius, &cfg.ObstacleRadius, 0, 1e6)
	float(EnvPenaltyScale, &cfg.PenaltyScale, 0, 1e12)

	if v, ok := lookup(EnvObstacles); ok && v != "" {
		ids, err := ParseIDs(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvObstacles, err))
		} else {
			cfg.Obstacles = ids
		}
	}
	if v, ok := lookup(EnvMaxExpansions); ok && v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxExpansions, err))
		case n < 0:
			errs = append(errs, fmt.Errorf("%s: must be non-negative", EnvMaxExpansions))
		default:
			cfg.MaxExpansions = n
		}
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvTimeout, err))
		case d < 0:
			errs = append(errs, fmt.Errorf("%s: must be non-negative", EnvTimeout))
		default:
			cfg.Timeout = d
		}
	}

	boolean(EnvTracing, &cfg.Tracing.Enabled)
	str(EnvTracingService, &cfg.Tracing.ServiceName)
	float(EnvTracingRatio, &cfg.Tracing.SampleRatio, 0, 1)

	return cfg, errors.Join(errs...)
}

// ParseIDs parses a comma or whitespace separated list of node ids.
func ParseIDs(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("node id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
