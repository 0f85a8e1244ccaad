// Package gui is the interactive window front end. The real implementation
// needs the ebiten build tag; without it Run reports ErrNoGUI
package gui

import (
	"log/slog"

	"github.com/sheikhrachel/lifegrid/model"
)

const (
	gridSizeStep = 5

	defaultCellSize = 12
)

// Options configures the window
type Options struct {
	// CellSize is the edge of one cell in pixels
	CellSize int
	// Density is passed to Randomize when R is pressed
	Density float64
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = defaultCellSize
	}
	if o.Density < 0 || o.Density > 1 {
		o.Density = model.DefaultDensity
	}
	return o
}

// cellAt maps a cursor position to grid coordinates. ok is false off the grid
func cellAt(x, y, cellSize, size int) (row, col int, ok bool) {
	if x < 0 || y < 0 || cellSize <= 0 {
		return 0, 0, false
	}
	row, col = y/cellSize, x/cellSize
	return row, col, row < size && col < size
}

// nextGridSize steps the grid size by delta, clamped to [model.MinSize, model.MaxSize]
func nextGridSize(size, delta int) int {
	return min(max(size+delta, model.MinSize), model.MaxSize)
}
