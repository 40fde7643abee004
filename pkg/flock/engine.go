// Package flock implements the simulation core: a fixed population of 2D
// agents advanced tick by tick through spatial-hash bucketing, per-bucket
// alignment/cohesion/separation forces, integration and boundary handling,
// with every phase fanned out over a shared worker pool.
package flock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"
)

// FrameStats records how long each phase of the last tick took. The phases
// are strictly ordered; there is no overlap between them.
type FrameStats struct {
	Tick          uint64
	BuildGrid     time.Duration
	ComputeForces time.Duration
	Integrate     time.Duration
	ApplyBounds   time.Duration
	Total         time.Duration
}

// Engine owns the agent state and sequences the per-tick pipeline
// BuildGrid -> ComputeForces -> Integrate -> ApplyBounds. Each phase fully
// completes, including all parallel fan-out, before the next begins.
//
// The engine is not safe for concurrent use: Step and the setters must be
// called from the same goroutine (the frame loop). The slices returned by
// Positions and Headings are read-only views into live buffers, valid to
// read between ticks.
type Engine struct {
	cfg Config

	positions    []geometry.Vector2D
	headings     []geometry.Vector2D
	nextHeadings []geometry.Vector2D

	grid        *SpatialGrid
	cells       []cellForces        // indexed by cell id, length = table size
	separations []geometry.Vector2D // indexed by agent

	pool  *Pool
	tick  uint64
	stats FrameStats
}

// NewEngine validates the configuration, allocates the agent buffers and
// randomizes positions (uniform over the world bounds) and headings
// (unit vectors from a uniformly sampled angle). Invalid configuration is
// rejected here, before the first tick.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		cfg:          *cfg,
		positions:    make([]geometry.Vector2D, cfg.AgentCount),
		headings:     make([]geometry.Vector2D, cfg.AgentCount),
		nextHeadings: make([]geometry.Vector2D, cfg.AgentCount),
		separations:  make([]geometry.Vector2D, cfg.AgentCount),
		grid:         NewSpatialGrid(cfg.CellSize, cfg.TableSize),
		pool:         NewPool(cfg.Workers),
	}
	e.cells = make([]cellForces, e.grid.TableSize())

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	for i := range e.positions {
		e.positions[i] = geometry.Vector2D{
			X: rng.Float64() * cfg.WorldWidth,
			Y: rng.Float64() * cfg.WorldHeight,
		}
		e.headings[i] = geometry.NewVectorPolar(1, rng.Float64()*2*math.Pi)
	}
	return e, nil
}

// Step advances the simulation by dt seconds. A failed phase task aborts the
// tick and is returned as an error; partial results are never emitted as a
// completed frame.
func (e *Engine) Step(dt float64) error {
	if dt < 0 || math.IsNaN(dt) {
		return fmt.Errorf("invalid delta time %g", dt)
	}

	e.tick++
	start := time.Now()
	stats := FrameStats{Tick: e.tick}

	// Phase 1: rebuild the spatial buckets from current positions.
	// Cheap O(N), deliberately single-threaded.
	e.grid.Rebuild(e.positions)
	stats.BuildGrid = time.Since(start)

	// Phase 2: per-bucket reductions, then the per-agent blend. The blend
	// reads only this tick's immutable aggregates and the previous tick's
	// headings; new headings go to the back buffer so no agent ever
	// observes another agent's already-updated heading within the tick.
	mark := time.Now()
	occupied := e.grid.Occupied()
	if err := e.pool.ForN(len(occupied), e.reduceBuckets); err != nil {
		return fmt.Errorf("compute forces (buckets): %w", err)
	}
	if err := e.pool.ForN(len(e.positions), e.blendAgents); err != nil {
		return fmt.Errorf("compute forces (blend): %w", err)
	}
	e.headings, e.nextHeadings = e.nextHeadings, e.headings
	stats.ComputeForces = time.Since(mark)

	// Phase 3: integrate positions. Disjoint writes, order-independent.
	mark = time.Now()
	step := dt * e.cfg.Speed
	err := e.pool.ForN(len(e.positions), func(start, end int) error {
		for i := start; i < end; i++ {
			e.positions[i] = e.positions[i].Add(e.headings[i].Mul(step))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("integrate: %w", err)
	}
	stats.Integrate = time.Since(mark)

	// Phase 4: boundary handling against the current world bounds.
	mark = time.Now()
	err = e.pool.ForN(len(e.positions), func(start, end int) error {
		for i := start; i < end; i++ {
			e.positions[i], e.headings[i] = applyBounds(
				e.cfg.Boundary, e.positions[i], e.headings[i],
				e.cfg.WorldWidth, e.cfg.WorldHeight)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply bounds: %w", err)
	}
	stats.ApplyBounds = time.Since(mark)

	stats.Total = time.Since(start)
	e.stats = stats
	return nil
}

// reduceBuckets runs the three pure reductions for a chunk of the occupied
// cell list. Distinct tasks touch distinct cells and distinct agents, so the
// writes are disjoint and need no locking.
func (e *Engine) reduceBuckets(start, end int) error {
	occupied := e.grid.Occupied()
	for _, cell := range occupied[start:end] {
		members := e.grid.Bucket(cell)
		e.cells[cell] = cellForces{
			alignment: bucketAlignment(members, e.headings),
			centroid:  bucketCentroid(members, e.positions),
		}
		bucketSeparation(members, e.positions, e.cfg.MinForceScale, e.cfg.MaxForceScale, e.separations)
	}
	return nil
}

// blendAgents computes the new heading for a chunk of agents into the back
// buffer.
func (e *Engine) blendAgents(start, end int) error {
	for i := start; i < end; i++ {
		cell := e.cells[e.grid.CellOfAgent(i)]
		e.nextHeadings[i] = blendHeading(e.headings[i], e.positions[i], cell, e.separations[i], &e.cfg)
	}
	return nil
}

// Positions returns a read-only view of the agent positions.
func (e *Engine) Positions() []geometry.Vector2D {
	return e.positions
}

// Headings returns a read-only view of the agent headings. Every entry is
// unit length, except the transient zero vector a fully cancelled force
// blend leaves behind.
func (e *Engine) Headings() []geometry.Vector2D {
	return e.headings
}

// AgentCount returns N, fixed for the lifetime of the engine.
func (e *Engine) AgentCount() int {
	return len(e.positions)
}

// Stats returns the phase timings of the last completed tick.
func (e *Engine) Stats() FrameStats {
	return e.stats
}

// Resize updates the world bounds, e.g. on a window resize. Only future
// boundary checks use the new bounds; in-flight positions are not
// retroactively clamped.
func (e *Engine) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("world bounds must be positive, got %gx%g", width, height)
	}
	e.cfg.WorldWidth = width
	e.cfg.WorldHeight = height
	return nil
}

// SetWeights updates the force blend weights for subsequent ticks.
func (e *Engine) SetWeights(alignment, cohesion, separation float64) {
	e.cfg.AlignmentWeight = alignment
	e.cfg.CohesionWeight = cohesion
	e.cfg.SeparationWeight = separation
}

// SetSpeed updates the movement speed (world units per second).
func (e *Engine) SetSpeed(speed float64) {
	e.cfg.Speed = speed
}

// SetCellSize updates the spatial-hash cell size for subsequent rebuilds.
func (e *Engine) SetCellSize(s float64) {
	if s > 0 {
		e.cfg.CellSize = s
		e.grid.SetCellSize(s)
	}
}

// Config returns a copy of the engine's current configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Close releases the worker pool. The engine must not be stepped afterwards.
func (e *Engine) Close() {
	e.pool.Close()
}
