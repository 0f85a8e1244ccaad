package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(size int, opts ...EngineOption) *Engine {
	opts = append([]EngineOption{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return NewEngine(size, opts...)
}

// liveCells returns the coordinates of every live cell as a set
func liveCells(e *Engine) map[[2]int]bool {
	out := map[[2]int]bool{}
	for row := 0; row < e.Size(); row++ {
		for col := 0; col < e.Size(); col++ {
			if e.Alive(row, col) {
				out[[2]int{row, col}] = true
			}
		}
	}
	return out
}

func shifted(cells map[[2]int]bool, dRow, dCol int) map[[2]int]bool {
	out := make(map[[2]int]bool, len(cells))
	for c := range cells {
		out[[2]int{c[0] + dRow, c[1] + dCol}] = true
	}
	return out
}

// engineModes runs a subtest against both the sequential and the parallel step
var engineModes = []struct {
	name string
	opts []EngineOption
}{
	{"sequential", nil},
	{"parallel", []EngineOption{WithParallel(4)}},
	{"pooled", []EngineOption{WithGridPool(NewGridPool()), WithParallel(3)}},
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine(12)
	assert.Equal(t, 12, e.Size())
	assert.Equal(t, 0, e.Generation())
	assert.Equal(t, 0, e.CountLivingCells())

	snap := e.Snapshot()
	require.Len(t, snap, 12)
	for _, row := range snap {
		assert.Len(t, row, 12)
	}
}

func TestStep_EmptyGridStaysEmpty(t *testing.T) {
	for _, mode := range engineModes {
		t.Run(mode.name, func(t *testing.T) {
			e := newTestEngine(15, mode.opts...)
			for n := 0; n < 5; n++ {
				e.Step()
				assert.Equal(t, 0, e.CountLivingCells())
			}
			assert.Equal(t, 5, e.Generation())
		})
	}
}

func TestStep_BlockIsStillLife(t *testing.T) {
	for _, mode := range engineModes {
		t.Run(mode.name, func(t *testing.T) {
			e := newTestEngine(10, mode.opts...)
			e.LoadPattern(Block, 4, 4)
			want := liveCells(e)

			for i := 0; i < 10; i++ {
				e.Step()
				assert.Equal(t, want, liveCells(e), "generation %d", i+1)
			}
		})
	}
}

func TestStep_BlockInCornerIsStillLife(t *testing.T) {
	e := newTestEngine(10)
	e.LoadPattern(Block, 0, 0)
	want := liveCells(e)

	e.Step()
	assert.Equal(t, want, liveCells(e))
}

func TestStep_BlinkerOscillates(t *testing.T) {
	for _, mode := range engineModes {
		t.Run(mode.name, func(t *testing.T) {
			e := newTestEngine(10, mode.opts...)
			e.LoadPattern(Blinker, 5, 4)
			horizontal := map[[2]int]bool{{5, 4}: true, {5, 5}: true, {5, 6}: true}
			vertical := map[[2]int]bool{{4, 5}: true, {5, 5}: true, {6, 5}: true}
			require.Equal(t, horizontal, liveCells(e))

			e.Step()
			assert.Equal(t, vertical, liveCells(e))

			e.Step()
			assert.Equal(t, horizontal, liveCells(e))
		})
	}
}

func TestStep_BeaconOscillates(t *testing.T) {
	e := newTestEngine(10)
	e.LoadPattern(Beacon, 3, 3)
	start := liveCells(e)
	require.Len(t, start, 6)

	e.Step()
	assert.Equal(t, 8, e.CountLivingCells())

	e.Step()
	assert.Equal(t, start, liveCells(e))
}

func TestStep_GliderTranslates(t *testing.T) {
	for _, mode := range engineModes {
		t.Run(mode.name, func(t *testing.T) {
			e := newTestEngine(30, mode.opts...)
			e.LoadPattern(Glider, 1, 1)
			start := liveCells(e)

			for period := 1; period <= 5; period++ {
				for n := 0; n < 4; n++ {
					e.Step()
					assert.Equal(t, 5, e.CountLivingCells())
				}
				assert.Equal(t, shifted(start, period, period), liveCells(e), "after %d periods", period)
			}
			assert.Equal(t, 20, e.Generation())
		})
	}
}

func TestStep_EdgeIsDeadNotWrapped(t *testing.T) {
	// A blinker on the top edge would gain a neighbor from the bottom row on a torus
	e := newTestEngine(10)
	e.LoadPattern(Blinker, 0, 3)
	e.ToggleCell(9, 4)

	e.Step()
	assert.True(t, e.Alive(0, 4))
	assert.True(t, e.Alive(1, 4))
	assert.False(t, e.Alive(9, 4), "isolated cell dies")
	assert.False(t, e.Alive(9, 3))
	assert.False(t, e.Alive(9, 5))
	assert.Equal(t, 2, e.CountLivingCells())
}

func TestStep_ParallelMatchesSequential(t *testing.T) {
	seq := NewEngine(40, WithRand(rand.New(rand.NewSource(7))))
	par := NewEngine(40, WithRand(rand.New(rand.NewSource(7))), WithParallel(6))
	seq.Randomize(DefaultDensity)
	par.Randomize(DefaultDensity)
	require.Equal(t, seq.Snapshot(), par.Snapshot())

	for i := 0; i < 25; i++ {
		seq.Step()
		par.Step()
		require.Equal(t, seq.Snapshot(), par.Snapshot(), "generation %d", i+1)
	}
}

func TestRandomize(t *testing.T) {
	e := newTestEngine(20)
	e.Step()

	e.Randomize(0.0)
	assert.Equal(t, 0, e.CountLivingCells())
	assert.Equal(t, 0, e.Generation())

	e.Randomize(1.0)
	assert.Equal(t, 400, e.CountLivingCells())

	e.Randomize(DefaultDensity)
	n := e.CountLivingCells()
	assert.Greater(t, n, 60)
	assert.Less(t, n, 180)

	e.Randomize(-3)
	assert.Equal(t, 0, e.CountLivingCells(), "density is clamped")
	e.Randomize(7)
	assert.Equal(t, 400, e.CountLivingCells(), "density is clamped")
}

func TestToggleCell(t *testing.T) {
	e := newTestEngine(10)
	e.Randomize(0.5)
	before := e.Snapshot()

	e.ToggleCell(3, 7)
	assert.Equal(t, !before[3][7], e.Alive(3, 7))
	e.ToggleCell(3, 7)
	assert.Equal(t, before, e.Snapshot())

	for _, c := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}, {10, 10}, {-5, 42}} {
		e.ToggleCell(c[0], c[1])
		assert.Equal(t, before, e.Snapshot(), "toggle %v", c)
	}
	assert.Equal(t, 0, e.Generation())
}

func TestClear(t *testing.T) {
	e := newTestEngine(10)
	e.Randomize(1)
	e.Step()

	e.Clear()
	assert.Equal(t, 0, e.CountLivingCells())
	assert.Equal(t, 0, e.Generation())
	assert.Equal(t, 10, e.Size())
}

func TestResize(t *testing.T) {
	for _, mode := range engineModes {
		t.Run(mode.name, func(t *testing.T) {
			e := newTestEngine(10, mode.opts...)
			e.Randomize(1)
			e.Step()
			e.Step()

			for _, size := range []int{25, 10, 100, 10} {
				e.Randomize(0.5)
				e.Step()
				e.Resize(size)
				assert.Equal(t, size, e.Size())
				assert.Equal(t, 0, e.Generation())
				assert.Equal(t, 0, e.CountLivingCells())
				snap := e.Snapshot()
				require.Len(t, snap, size)
				for _, row := range snap {
					require.Len(t, row, size)
				}

				// scratch must match the new size too
				e.LoadPattern(Glider, size/2, size/2)
				e.Step()
				assert.Equal(t, 5, e.CountLivingCells())
			}
		})
	}
}

func TestLoadPattern_IsAdditive(t *testing.T) {
	e := newTestEngine(40)
	for _, p := range DemoPlacements() {
		pattern, err := LookupPattern(p.Pattern)
		require.NoError(t, err)
		e.LoadPattern(pattern, p.Row, p.Col)
	}
	assert.Equal(t, Glider.Population()+Beacon.Population()+Blinker.Population(), e.CountLivingCells())
}

func TestLoadPattern_NeverKills(t *testing.T) {
	e := newTestEngine(10)
	e.Randomize(1)
	e.LoadPattern(Glider, 2, 2)
	assert.Equal(t, 100, e.CountLivingCells())
}

func TestLoadPattern_DoesNotResetGeneration(t *testing.T) {
	e := newTestEngine(10)
	e.Step()
	e.LoadPattern(Block, 1, 1)
	assert.Equal(t, 1, e.Generation())
}

func TestLoadPattern_ClipsOutOfBounds(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		want     map[[2]int]bool
	}{
		{
			name: "bottom right corner",
			row:  8, col: 8,
			want: map[[2]int]bool{{8, 8}: true, {8, 9}: true, {9, 8}: true},
		},
		{
			name: "negative offset",
			row:  -1, col: -1,
			want: map[[2]int]bool{{1, 2}: true, {2, 1}: true, {2, 2}: true},
		},
		{
			name: "fully outside",
			row:  10, col: 0,
			want: map[[2]int]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(10)
			e.LoadPattern(Beacon, tt.row, tt.col)
			assert.Equal(t, tt.want, liveCells(e))
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	e := newTestEngine(10)
	snap := e.Snapshot()
	snap[0][0] = true
	assert.False(t, e.Alive(0, 0))
}

func TestHashTracksState(t *testing.T) {
	e := newTestEngine(10)
	empty := e.Hash()

	e.LoadPattern(Blinker, 4, 4)
	phase0 := e.Hash()
	assert.NotEqual(t, empty, phase0)

	e.Step()
	assert.NotEqual(t, phase0, e.Hash())
	e.Step()
	assert.Equal(t, phase0, e.Hash())
}
