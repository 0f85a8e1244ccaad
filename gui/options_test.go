package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikhrachel/lifegrid/model"
)

func TestCellAt(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		row, col int
		ok       bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside", 25, 13, 1, 2, true},
		{"last cell", 119, 119, 9, 9, true},
		{"right of grid", 120, 5, 0, 10, false},
		{"negative x", -5, 5, 0, 0, false},
		{"negative y", 5, -1, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := cellAt(tt.x, tt.y, 12, 10)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.row, row)
				assert.Equal(t, tt.col, col)
			}
		})
	}
}

func TestNextGridSize(t *testing.T) {
	assert.Equal(t, 45, nextGridSize(40, gridSizeStep))
	assert.Equal(t, model.MinSize, nextGridSize(12, -gridSizeStep))
	assert.Equal(t, model.MaxSize, nextGridSize(98, gridSizeStep))
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Density: -1}.withDefaults()
	assert.Equal(t, defaultCellSize, o.CellSize)
	assert.Equal(t, model.DefaultDensity, o.Density)

	o = Options{Density: 1.5}.withDefaults()
	assert.Equal(t, model.DefaultDensity, o.Density)

	o = Options{CellSize: 8, Density: 0.5}.withDefaults()
	assert.Equal(t, 8, o.CellSize)
	assert.Equal(t, 0.5, o.Density)
}

func TestOptionsDefaults_KeepsZeroDensity(t *testing.T) {
	o := Options{Density: 0}.withDefaults()
	assert.Zero(t, o.Density, "an empty randomize is a valid setting")
}
