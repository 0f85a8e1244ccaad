package model

import (
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultDensity is the share of cells Randomize brings to life when callers have no preference
const DefaultDensity = 0.3

// Engine owns the simulation state: two equally sized grids used as a
// double buffer, the generation counter and the grid dimension.
//
// grids[current] is the readable generation, grids[1-current] is the scratch
// buffer the next generation is written into. Engine is not safe for
// concurrent use; callers serialize access (see driver.Controller)
type Engine struct {
	grids      [2]*Grid
	current    int
	generation int
	size       int

	workers int
	pool    *GridPool
	rng     *rand.Rand
}

// EngineOption configures an Engine at construction time
type EngineOption func(*Engine)

// WithRand sets the random source used by Randomize
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithParallel splits each step across workers goroutines by row; values below 2 keep the sequential scan
func WithParallel(workers int) EngineOption {
	return func(e *Engine) {
		e.workers = workers
	}
}

// WithGridPool makes Resize recycle grid buffers through pool
func WithGridPool(pool *GridPool) EngineOption {
	return func(e *Engine) {
		e.pool = pool
	}
}

// NewEngine creates an engine with an all-dead size x size grid at generation 0
func NewEngine(size int, opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.initialize(size)
	return e
}

func (e *Engine) initialize(size int) {
	for i, g := range e.grids {
		GridToPool(g, e.pool)
		e.grids[i] = e.newGrid(size)
	}
	e.current = 0
	e.generation = 0
	e.size = max(size, 0)
}

func (e *Engine) newGrid(size int) *Grid {
	if e.pool != nil {
		return e.pool.Get(size)
	}
	return NewGrid(size)
}

func (e *Engine) grid() *Grid    { return e.grids[e.current] }
func (e *Engine) scratch() *Grid { return e.grids[1-e.current] }

// Size returns the grid dimension
func (e *Engine) Size() int { return e.size }

// Generation returns the number of steps taken since the last reset
func (e *Engine) Generation() int { return e.generation }

// Alive reports whether the cell at (row, col) is alive; off-grid cells are dead
func (e *Engine) Alive(row, col int) bool { return e.grid().Get(row, col) }

// Snapshot returns a copy of the current generation
func (e *Engine) Snapshot() [][]bool { return e.grid().Copy() }

// Hash returns a fingerprint of the current generation
func (e *Engine) Hash() string { return e.grid().GetGridHash() }

// Resize discards all cells and reallocates both grids as newSize x newSize
func (e *Engine) Resize(newSize int) {
	e.initialize(newSize)
}

// ToggleCell flips the cell at (row, col); off-grid coordinates are ignored
func (e *Engine) ToggleCell(row, col int) {
	e.grid().Toggle(row, col)
}

// Clear kills every cell and resets the generation counter
func (e *Engine) Clear() {
	e.grid().Clear()
	e.generation = 0
}

// Randomize sets each cell alive with probability density and resets the generation counter
func (e *Engine) Randomize(density float64) {
	density = min(max(density, 0), 1)
	e.grid().Randomize(density, e.rng)
	e.generation = 0
}

// LoadPattern stamps the live cells of p with its top-left corner at
// (offsetRow, offsetCol). Cells are only ever set alive; the parts of p that
// fall off the grid are dropped
func (e *Engine) LoadPattern(p Pattern, offsetRow, offsetCol int) {
	g := e.grid()
	for i, row := range p.Cells {
		for j, v := range row {
			if v == 1 {
				g.Set(offsetRow+i, offsetCol+j, true)
			}
		}
	}
}

// CountLivingCells returns the number of live cells in the current generation
func (e *Engine) CountLivingCells() int {
	return e.grid().CountLivingCells()
}

// Step advances the simulation by exactly one generation
func (e *Engine) Step() {
	cur, next := e.grid(), e.scratch()
	if e.workers > 1 && e.size > 1 {
		e.stepParallel(cur, next)
	} else {
		cur.nextRows(next, 0, e.size)
	}

	e.current = 1 - e.current
	e.generation++
}

// stepParallel computes the next generation in row bands.
// Every worker reads only cur and writes only its own rows of next
func (e *Engine) stepParallel(cur, next *Grid) {
	var (
		eg            errgroup.Group
		numWorkers    = min(e.workers, e.size)
		rowsPerWorker = (e.size + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := 0; i < numWorkers; i++ {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, e.size)
		)
		if startRow >= e.size {
			break
		}

		eg.Go(func() error {
			cur.nextRows(next, startRow, endRow)
			return nil
		})
	}

	// workers never return an error
	_ = eg.Wait()
}
