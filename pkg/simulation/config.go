package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	golog "github.com/tochemey/goakt/v3/log"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight"`

	// Population
	NumBoids int    `json:"numBoids" yaml:"numBoids"`
	Seed     uint64 `json:"seed" yaml:"seed"` // 0 means a new flock every run

	// Physics
	MaxSpeed     float64 `json:"maxSpeed" yaml:"maxSpeed"`
	MaxForce     float64 `json:"maxForce" yaml:"maxForce"`
	BoidRadius   float64 `json:"boidRadius" yaml:"boidRadius"`
	InitialSpeed float64 `json:"initialSpeed" yaml:"initialSpeed"`
	Boundary     string  `json:"boundary" yaml:"boundary"` // wrap or reflect

	// Neighbourhood
	AvoidRadius      float64 `json:"avoidRadius" yaml:"avoidRadius"`
	FollowRadius     float64 `json:"followRadius" yaml:"followRadius"`
	NeighborhoodSize float64 `json:"neighborhoodSize" yaml:"neighborhoodSize"`
	QuadtreeCapacity int     `json:"quadtreeCapacity" yaml:"quadtreeCapacity"`
	Workers          int     `json:"workers" yaml:"workers"`

	// Flocking weights, changed at runtime by TuningStep
	SeparationWeight float64 `json:"separationWeight" yaml:"separationWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" yaml:"cohesionWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" yaml:"alignmentWeight"`
	SeekWeight       float64 `json:"seekWeight" yaml:"seekWeight"`
	TuningStep       float64 `json:"tuningStep" yaml:"tuningStep"`

	// Runtime
	TicksPerSecond  int    `json:"ticksPerSecond" yaml:"ticksPerSecond"`
	DisplayQuadtree bool   `json:"displayQuadtree" yaml:"displayQuadtree"`
	LogLevel        string `json:"logLevel" yaml:"logLevel"`
}

func DefaultConfig() *Config {
	p := flock.DefaultParams()
	w := flock.DefaultWeights()
	return &Config{
		WorldWidth:       p.Bounds.Width,
		WorldHeight:      p.Bounds.Height,
		NumBoids:         p.NumBoids,
		MaxSpeed:         p.MaxSpeed,
		MaxForce:         p.MaxForce,
		BoidRadius:       p.Radius,
		InitialSpeed:     p.InitialSpeed,
		Boundary:         p.Boundary.String(),
		AvoidRadius:      p.AvoidRadius,
		FollowRadius:     p.FollowRadius,
		NeighborhoodSize: p.NeighborhoodSize,
		QuadtreeCapacity: p.Capacity,
		Workers:          p.Workers,
		SeparationWeight: w.Separation,
		CohesionWeight:   w.Cohesion,
		AlignmentWeight:  w.Alignment,
		SeekWeight:       w.Seek,
		TuningStep:       flock.DefaultTuningStep,
		TicksPerSecond:   60,
		LogLevel:         "info",
	}
}

// LoadConfig loads a JSON or YAML configuration file (chosen by extension),
// validates it against the embedded schema and the cross-field rules of
// Validate. Fields missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		if b, err = yamlToJSON(b); err != nil {
			return nil, err
		}
	}
	return ParseConfig(b)
}

// ParseConfig validates a JSON document and decodes it over DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config yaml: %w", err)
	}
	return out, nil
}

// Validate checks the rules the schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.TuningStep <= 0 {
		return fmt.Errorf("config validation failed: tuning step must be positive, got %v", c.TuningStep)
	}
	if c.TicksPerSecond <= 0 {
		return fmt.Errorf("config validation failed: ticks per second must be positive, got %d", c.TicksPerSecond)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Params converts the configuration to the parameters of a flock.Simulation.
func (c *Config) Params() (flock.Params, error) {
	boundary, err := flock.ParseBoundaryPolicy(c.Boundary)
	if err != nil {
		return flock.Params{}, err
	}
	p := flock.Params{
		Bounds:           geometry.NewRectangle(0, 0, c.WorldWidth, c.WorldHeight),
		NumBoids:         c.NumBoids,
		MaxSpeed:         c.MaxSpeed,
		MaxForce:         c.MaxForce,
		Radius:           c.BoidRadius,
		InitialSpeed:     c.InitialSpeed,
		AvoidRadius:      c.AvoidRadius,
		FollowRadius:     c.FollowRadius,
		NeighborhoodSize: c.NeighborhoodSize,
		Capacity:         c.QuadtreeCapacity,
		Boundary:         boundary,
		Workers:          c.Workers,
		Seed:             c.Seed,
	}
	if err := p.Validate(); err != nil {
		return flock.Params{}, err
	}
	return p, nil
}

// Weights returns the initial flocking weights.
func (c *Config) Weights() flock.Weights {
	return flock.Weights{
		Separation: c.SeparationWeight,
		Cohesion:   c.CohesionWeight,
		Alignment:  c.AlignmentWeight,
		Seek:       c.SeekWeight,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func parseLogLevel(s string) (golog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return golog.DebugLevel, nil
	case "", "info":
		return golog.InfoLevel, nil
	case "warn", "warning":
		return golog.WarningLevel, nil
	case "error":
		return golog.ErrorLevel, nil
	default:
		return golog.InvalidLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger returns a goakt logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) golog.Logger {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		level = golog.InfoLevel
	}
	return golog.New(level, w)
}
