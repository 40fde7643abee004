package flock

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Boundary policies. Wrap is the reference behavior: a coordinate past an
// edge snaps to the opposite edge in a single step.
const (
	BoundaryWrap   = "wrap"
	BoundaryClamp  = "clamp"
	BoundaryBounce = "bounce"
)

// DefaultTableSize is the modulus for the spatial hash. It is a prime sized
// to the expected number of occupied cells, deliberately decoupled from the
// agent count: using N as the modulus (as naive spatial-hash code does) makes
// spatially distant cells collide whenever N is small or agents cluster.
const DefaultTableSize = 4099

// Config holds every tunable of the simulation core. Agent count and table
// size are fixed for the lifetime of an Engine; world bounds, weights, speed
// and cell size may be changed between ticks.
type Config struct {
	// Population
	AgentCount int `json:"agentCount"`

	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Spatial hashing
	CellSize  float64 `json:"cellSize"`
	TableSize int     `json:"tableSize"` // 0 selects DefaultTableSize

	// Force blending
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`
	SeparationWeight float64 `json:"separationWeight"`

	// Clamp bounds for the 1/distance force scale, keeping near-contact
	// forces from exploding and far-field forces from vanishing entirely.
	MinForceScale float64 `json:"minForceScale"`
	MaxForceScale float64 `json:"maxForceScale"`

	// Movement
	Speed float64 `json:"speed"` // world units per second

	Boundary string `json:"boundary"`

	// Workers bounds the parallel fan-out; 0 means GOMAXPROCS.
	Workers int `json:"workers"`

	// Seed for initial positions and headings; 0 derives one from the clock.
	Seed uint64 `json:"seed"`
}

// DefaultConfig mirrors the tuning the simulation was developed with:
// a thousand agents on a 1280x720 world at 60 ticks per second.
func DefaultConfig() *Config {
	return &Config{
		AgentCount:       1000,
		WorldWidth:       1280,
		WorldHeight:      720,
		CellSize:         100,
		TableSize:        DefaultTableSize,
		AlignmentWeight:  1.0,
		CohesionWeight:   0.7,
		SeparationWeight: 0.8,
		MinForceScale:    0.01,
		MaxForceScale:    100,
		Speed:            50,
		Boundary:         BoundaryWrap,
	}
}

// Validate rejects configurations the engine cannot run with. It is called
// by NewEngine so that bad input fails fast, before the first tick.
func (c *Config) Validate() error {
	if c.AgentCount <= 0 {
		return fmt.Errorf("agentCount must be positive, got %d", c.AgentCount)
	}
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		return fmt.Errorf("world bounds must be positive, got %gx%g", c.WorldWidth, c.WorldHeight)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cellSize must be positive, got %g", c.CellSize)
	}
	if c.TableSize < 0 {
		return fmt.Errorf("tableSize must not be negative, got %d", c.TableSize)
	}
	if c.MinForceScale < 0 || c.MaxForceScale < c.MinForceScale {
		return fmt.Errorf("force scale clamp [%g, %g] is not a valid interval", c.MinForceScale, c.MaxForceScale)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Boundary {
	case BoundaryWrap, BoundaryClamp, BoundaryBounce:
	default:
		return fmt.Errorf("unknown boundary policy %q", c.Boundary)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against
// the schema before unmarshalling.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
