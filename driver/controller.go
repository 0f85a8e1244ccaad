// Package driver paces a simulation engine and routes user intents to it.
//
// The engine is synchronous and single-threaded. Controller owns the only
// reference to it, serializes intents arriving from input handlers with the
// run loop, and steps the engine at Speed ticks per second while playing
package driver

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/sheikhrachel/lifegrid/logging"
	"github.com/sheikhrachel/lifegrid/model"
)

const (
	MinSpeed     = 1
	MaxSpeed     = 60
	DefaultSpeed = 10
)

// Status is the rendering-relevant state of the simulation at one instant
type Status struct {
	Generation int
	Living     int
	Size       int
	Playing    bool
	Speed      int
}

// Observer is notified after the engine state changes.
// Callbacks run on the goroutine that caused the change, outside the controller lock
type Observer interface {
	// OnStep is called after every generation advance
	OnStep(Status)
	// OnReset is called after clear, randomize, resize and pattern loads
	OnReset(Status)
}

// Controller drives an Engine
type Controller struct {
	mu             sync.Mutex
	engine         *model.Engine
	playing        bool
	speed          int
	maxGenerations int
	exitAtLimit    bool

	limiter   *rate.Limiter
	wake      chan struct{}
	observers []Observer
	logger    *slog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithSpeed sets the initial ticks per second
func WithSpeed(tps int) Option {
	return func(c *Controller) { c.speed = clampSpeed(tps) }
}

// WithObserver registers an observer; it may be given more than once
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithLogger sets the logger for state changes
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxGenerations makes Run pause when it steps the generation counter to n; 0 means unlimited.
// Play resumes past the limit
func WithMaxGenerations(n int) Option {
	return func(c *Controller) { c.maxGenerations = max(n, 0) }
}

// WithExitAtLimit makes Run return nil instead of pausing at the generation limit
func WithExitAtLimit() Option {
	return func(c *Controller) { c.exitAtLimit = true }
}

// New returns a paused controller for engine
func New(engine *model.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		speed:  DefaultSpeed,
		wake:   make(chan struct{}, 1),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limiter = rate.NewLimiter(rate.Limit(c.speed), 1)
	return c
}

func clampSpeed(tps int) int {
	return min(max(tps, MinSpeed), MaxSpeed)
}

// Run steps the engine while playing until ctx is done. It blocks while
// paused, and at the generation limit it pauses or returns per WithExitAtLimit
func (c *Controller) Run(ctx context.Context) error {
	for {
		if !c.Playing() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.wake:
			}
			continue
		}

		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		c.mu.Lock()
		if !c.playing {
			// paused while waiting for the tick
			c.mu.Unlock()
			continue
		}
		c.engine.Step()
		done := c.maxGenerations > 0 && c.engine.Generation() == c.maxGenerations
		if done {
			c.playing = false
		}
		st := c.statusLocked()
		c.mu.Unlock()

		c.notifyStep(st)
		if done {
			c.logger.Info("generation limit reached", "generation", st.Generation, "living", st.Living)
			if c.exitAtLimit {
				return nil
			}
		}
	}
}

// Playing reports whether Run is currently advancing the simulation
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Speed returns the target ticks per second
func (c *Controller) Speed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Status returns the current simulation state
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		Generation: c.engine.Generation(),
		Living:     c.engine.CountLivingCells(),
		Size:       c.engine.Size(),
		Playing:    c.playing,
		Speed:      c.speed,
	}
}

// View calls fn with the engine while holding the controller lock.
// fn must only read from the engine
func (c *Controller) View(fn func(e *model.Engine)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.engine)
}

// Play starts or resumes stepping
func (c *Controller) Play() {
	c.setPlaying(true)
}

// Pause stops stepping after the current step, if any
func (c *Controller) Pause() {
	c.setPlaying(false)
}

// TogglePlay switches between playing and paused
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	c.playing = !c.playing
	playing, gen := c.playing, c.engine.Generation()
	c.mu.Unlock()

	c.playChanged(playing, gen)
}

func (c *Controller) setPlaying(playing bool) {
	c.mu.Lock()
	changed := c.playing != playing
	c.playing = playing
	gen := c.engine.Generation()
	c.mu.Unlock()

	if changed {
		c.playChanged(playing, gen)
	}
}

func (c *Controller) playChanged(playing bool, gen int) {
	if playing {
		select {
		case c.wake <- struct{}{}:
		default:
		}
	}
	c.logger.Debug("play state changed", "playing", playing, "generation", gen)
}

// SetSpeed sets the target ticks per second, clamped to [MinSpeed, MaxSpeed]
func (c *Controller) SetSpeed(tps int) {
	tps = clampSpeed(tps)
	c.mu.Lock()
	c.speed = tps
	c.mu.Unlock()
	c.limiter.SetLimit(rate.Limit(tps))
	c.logger.Debug("speed changed", "speed", tps)
}

// Step advances exactly one generation regardless of the play state
func (c *Controller) Step() {
	c.mu.Lock()
	c.engine.Step()
	st := c.statusLocked()
	c.mu.Unlock()
	c.notifyStep(st)
}

// ToggleCell flips one cell; off-grid coordinates are ignored
func (c *Controller) ToggleCell(row, col int) {
	c.mu.Lock()
	c.engine.ToggleCell(row, col)
	st := c.statusLocked()
	c.mu.Unlock()
	c.notifyReset(st)
}

// Clear pauses and kills every cell
func (c *Controller) Clear() {
	c.mu.Lock()
	c.playing = false
	c.engine.Clear()
	st := c.statusLocked()
	c.mu.Unlock()

	c.logger.Info("cleared", "size", st.Size)
	c.notifyReset(st)
}

// Randomize pauses and reseeds every cell with the given density
func (c *Controller) Randomize(density float64) {
	c.mu.Lock()
	c.playing = false
	c.engine.Randomize(density)
	st := c.statusLocked()
	c.mu.Unlock()

	c.logger.Info("randomized", "density", density, "living", st.Living)
	c.notifyReset(st)
}

// Resize replaces the grid with an empty size x size one
func (c *Controller) Resize(size int) {
	c.mu.Lock()
	c.engine.Resize(size)
	st := c.statusLocked()
	c.mu.Unlock()

	c.logger.Info("resized", "size", size)
	c.notifyReset(st)
}

// LoadPattern stamps the named pattern at (row, col) without clearing
func (c *Controller) LoadPattern(name string, row, col int) error {
	return c.LoadPlacements([]model.Placement{{Pattern: name, Row: row, Col: col}})
}

// LoadPlacements stamps every placement in order. Nothing is stamped if any name is unknown
func (c *Controller) LoadPlacements(placements []model.Placement) error {
	resolved := make([]model.Pattern, len(placements))
	for i, p := range placements {
		pattern, err := model.LookupPattern(p.Pattern)
		if err != nil {
			return err
		}
		resolved[i] = pattern
	}

	c.mu.Lock()
	for i, p := range placements {
		c.engine.LoadPattern(resolved[i], p.Row, p.Col)
	}
	st := c.statusLocked()
	c.mu.Unlock()

	c.logger.Debug("patterns loaded", "count", len(placements), "living", st.Living)
	c.notifyReset(st)
	return nil
}

// LoadDemo clears the grid and stamps the demonstration patterns
func (c *Controller) LoadDemo() {
	c.Clear()
	// demo names are always registered
	_ = c.LoadPlacements(model.DemoPlacements())
}

func (c *Controller) notifyStep(st Status) {
	for _, o := range c.observers {
		o.OnStep(st)
	}
}

func (c *Controller) notifyReset(st Status) {
	for _, o := range c.observers {
		o.OnReset(st)
	}
}
