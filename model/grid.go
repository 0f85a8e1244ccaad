package model

import (
	"crypto/md5"
	"fmt"
	"math/rand"

	"github.com/sheikhrachel/lifegrid/rules"
)

// Supported grid dimensions for front ends and config files
const (
	MinSize = 10
	MaxSize = 100
)

// Grid represents a square game board indexed [row][col]
type Grid struct {
	size  int
	cells [][]bool
}

// NewGrid creates a new all-dead grid with the specified dimension
func NewGrid(size int) *Grid {
	g := &Grid{}
	g.Reset(size)
	return g
}

// GetSize returns the dimension of the grid
func (g *Grid) GetSize() int {
	return g.size
}

// Reset resizes the grid to size x size and kills every cell
func (g *Grid) Reset(size int) {
	size = max(size, 0)
	g.size = size

	// Resize cells if needed
	if len(g.cells) != size {
		g.cells = make([][]bool, size)
	}
	for i := range g.cells {
		if len(g.cells[i]) != size {
			g.cells[i] = make([]bool, size)
		} else {
			clear(g.cells[i])
		}
	}
}

// Clear kills all cells
func (g *Grid) Clear() {
	for row := range g.cells {
		clear(g.cells[row])
	}
}

// InBounds reports whether (row, col) lies on the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Set sets a cell to alive (true) or dead (false), ignoring off-grid coordinates
func (g *Grid) Set(row, col int, alive bool) {
	if g.InBounds(row, col) {
		g.cells[row][col] = alive
	}
}

// Get returns the state of a cell; off-grid cells are dead
func (g *Grid) Get(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.cells[row][col]
}

// Toggle flips a cell, ignoring off-grid coordinates
func (g *Grid) Toggle(row, col int) {
	if g.InBounds(row, col) {
		g.cells[row][col] = !g.cells[row][col]
	}
}

// CountNeighborsOptimized counts living neighbors, treating the border as permanently dead
func (g *Grid) CountNeighborsOptimized(row, col int) int {
	count := 0

	// Clamp the 3x3 window to the grid once instead of checking every neighbor
	minRow := max(0, row-1)
	maxRow := min(g.size-1, row+1)
	minCol := max(0, col-1)
	maxCol := min(g.size-1, col+1)

	for nr := minRow; nr <= maxRow; nr++ {
		for nc := minCol; nc <= maxCol; nc++ {
			if nr == row && nc == col {
				continue // Skip the cell itself
			}
			if g.cells[nr][nc] {
				count++
			}
		}
	}

	return count
}

// nextRows writes the next state of rows [startRow, endRow) into dst.
// g is only read and dst is only written
func (g *Grid) nextRows(dst *Grid, startRow, endRow int) {
	for row := startRow; row < endRow; row++ {
		for col := 0; col < g.size; col++ {
			dst.cells[row][col] = rules.ApplyConwayRules(g.CountNeighborsOptimized(row, col), g.cells[row][col])
		}
	}
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for row := range g.cells {
		for _, alive := range g.cells[row] {
			if alive {
				count++
			}
		}
	}
	return
}

// GetGridHash returns an MD5 fingerprint of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	buf := make([]byte, g.size)
	for row := range g.cells {
		for col, alive := range g.cells[row] {
			buf[col] = 0
			if alive {
				buf[col] = 1
			}
		}
		h.Write(buf)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Randomize sets every cell alive with probability density
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col] = rng.Float64() < density
		}
	}
}

// Copy returns a deep copy of the cells
func (g *Grid) Copy() [][]bool {
	out := make([][]bool, g.size)
	for row := range g.cells {
		out[row] = append([]bool(nil), g.cells[row]...)
	}
	return out
}
