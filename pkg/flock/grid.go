package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"
)

// Spatial hash primes, per the standard construction in
// http://www.beosil.com/download/CollisionDetectionHashing_VMV03.pdf
const (
	hashP1 uint32 = 73856093
	hashP2 uint32 = 19349663
)

// SpatialGrid buckets agent indices by hashed world-space cell. The grid is
// tick-scoped derived data: Rebuild discards the previous tick's contents
// entirely, there is no incremental maintenance.
type SpatialGrid struct {
	cellSize  float64
	tableSize uint32

	// buckets maps cell id -> agent indices for every occupied cell.
	buckets map[uint32][]int
	// occupied lists the cell ids present this tick, in first-seen order,
	// so the force pass can be chunked over a plain slice.
	occupied []uint32
	// cellOfAgent[i] is the cell agent i hashed to this tick.
	cellOfAgent []uint32
}

// NewSpatialGrid creates a grid with the given cell size and hash-table
// modulus. tableSize <= 0 selects DefaultTableSize.
func NewSpatialGrid(cellSize float64, tableSize int) *SpatialGrid {
	if tableSize <= 0 {
		tableSize = DefaultTableSize
	}
	return &SpatialGrid{
		cellSize:  cellSize,
		tableSize: uint32(tableSize),
		buckets:   make(map[uint32][]int),
	}
}

// CellID hashes a position to its cell id. Identical positions always yield
// the identical id, and any two positions sharing a floor cell share an id.
func (g *SpatialGrid) CellID(p geometry.Vector2D) uint32 {
	cx := uint32(int32(math.Floor(p.X / g.cellSize)))
	cy := uint32(int32(math.Floor(p.Y / g.cellSize)))
	return (cx*hashP1 ^ cy*hashP2) % g.tableSize
}

// Rebuild repartitions all agents into buckets from scratch.
// Bucket slices are reset to length 0 but keep their capacity, so after the
// first few ticks a rebuild allocates almost nothing.
func (g *SpatialGrid) Rebuild(positions []geometry.Vector2D) {
	for k := range g.buckets {
		g.buckets[k] = g.buckets[k][:0]
	}
	g.occupied = g.occupied[:0]

	if cap(g.cellOfAgent) < len(positions) {
		g.cellOfAgent = make([]uint32, len(positions))
	}
	g.cellOfAgent = g.cellOfAgent[:len(positions)]

	// Iterating in index order keeps bucket membership order deterministic,
	// which is what makes the separation tie-break reproducible.
	for i, p := range positions {
		cell := g.CellID(p)
		members := g.buckets[cell]
		if len(members) == 0 {
			g.occupied = append(g.occupied, cell)
		}
		g.buckets[cell] = append(members, i)
		g.cellOfAgent[i] = cell
	}
}

// Bucket returns the member indices of a cell. Nil for unoccupied cells.
func (g *SpatialGrid) Bucket(cell uint32) []int {
	return g.buckets[cell]
}

// Occupied returns the cell ids holding at least one agent this tick.
// The slice is owned by the grid and valid until the next Rebuild.
func (g *SpatialGrid) Occupied() []uint32 {
	return g.occupied
}

// CellOfAgent returns the cell agent i was bucketed into by the last Rebuild.
func (g *SpatialGrid) CellOfAgent(i int) uint32 {
	return g.cellOfAgent[i]
}

// TableSize returns the hash-table modulus; every cell id is below it.
func (g *SpatialGrid) TableSize() int {
	return int(g.tableSize)
}

// SetCellSize changes the cell size for subsequent rebuilds. Call only
// between ticks.
func (g *SpatialGrid) SetCellSize(s float64) {
	if s > 0 {
		g.cellSize = s
	}
}
