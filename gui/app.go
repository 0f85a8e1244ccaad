//go:build ebiten

package gui

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifegrid/driver"
	"github.com/sheikhrachel/lifegrid/logging"
	"github.com/sheikhrachel/lifegrid/model"
)

var (
	backgroundColor = color.Black
	gridLineColor   = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	cellColor       = color.RGBA{R: 0x00, G: 0xff, B: 0x88, A: 0xff}
)

// Game adapts a driver.Controller to the ebiten.Game interface
type Game struct {
	ctx  context.Context
	ctrl *driver.Controller
	opts Options
	size int
}

// New constructs a Game for the provided controller.
// The window closes once ctx is done
func New(ctx context.Context, ctrl *driver.Controller, opts Options) *Game {
	return &Game{ctx: ctx, ctrl: ctrl, opts: opts.withDefaults(), size: ctrl.Status().Size}
}

// Run opens the window and drives the controller until the window closes or ctx is done
func Run(ctx context.Context, ctrl *driver.Controller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := New(ctx, ctrl, opts)
	logger := g.opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	go func() {
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("simulation loop stopped", "error", err)
		}
	}()

	ebiten.SetWindowTitle("lifegrid")
	g.resizeWindow()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) resizeWindow() {
	px := g.size * g.opts.CellSize
	ebiten.SetWindowSize(px, px)
}

// Update routes keyboard and mouse input to the controller
func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.ctrl.TogglePlay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.ctrl.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.ctrl.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.ctrl.Randomize(g.opts.Density)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.ctrl.SetSpeed(g.ctrl.Speed() + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.ctrl.SetSpeed(g.ctrl.Speed() - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.resize(-gridSizeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.resize(gridSizeStep)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if row, col, ok := cellAt(x, y, g.opts.CellSize, g.size); ok {
			g.ctrl.ToggleCell(row, col)
		}
	}
	return nil
}

func (g *Game) resize(delta int) {
	next := nextGridSize(g.size, delta)
	if next == g.size {
		return
	}
	g.size = next
	g.ctrl.Resize(next)
	g.resizeWindow()
}

// Draw renders the grid lines, the live cells and a status line
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	cs := float32(g.opts.CellSize)
	g.ctrl.View(func(e *model.Engine) {
		size := e.Size()
		extent := float32(size) * cs
		for i := 0; i <= size; i++ {
			pos := float32(i) * cs
			vector.StrokeLine(screen, pos, 0, pos, extent, 1, gridLineColor, false)
			vector.StrokeLine(screen, 0, pos, extent, pos, 1, gridLineColor, false)
		}
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				if e.Alive(row, col) {
					vector.DrawFilledRect(screen, float32(col)*cs+1, float32(row)*cs+1, cs-2, cs-2, cellColor, false)
				}
			}
		}
	})
	status := g.ctrl.Status()

	state := "paused"
	if status.Playing {
		state = "playing"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("gen %d  living %d  %d/s  %s",
		status.Generation, status.Living, status.Speed, state))
}

// Layout returns the logical screen size
func (g *Game) Layout(int, int) (int, int) {
	px := g.size * g.opts.CellSize
	return px, px
}
