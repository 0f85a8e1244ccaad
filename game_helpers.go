package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/sheikhrachel/lifegrid/driver"
	"github.com/sheikhrachel/lifegrid/metrics"
	"github.com/sheikhrachel/lifegrid/model"
	"github.com/sheikhrachel/lifegrid/utils"
)

// historySize is how many recent grid hashes are kept to detect cycles
const historySize = 5

// game bundles everything a front end needs
type game struct {
	ctrl    *driver.Controller
	view    *terminalView
	metrics *metrics.Collector
}

// initializeGame sets up the initial game state. A nil out skips terminal rendering
func initializeGame(config utils.Config, logger *slog.Logger, out io.Writer) (*game, error) {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []model.EngineOption{
		model.WithRand(rand.New(rand.NewSource(seed))),
		model.WithParallel(config.Parallel),
	}
	if config.UseMemoryPool {
		opts = append(opts, model.WithGridPool(model.NewGridPool()))
	}
	engine := model.NewEngine(config.Size, opts...)

	g := &game{}
	ctrlOpts := []driver.Option{
		driver.WithSpeed(config.Speed),
		driver.WithLogger(logger),
		driver.WithMaxGenerations(config.MaxGenerations),
	}
	if config.MetricsAddr != "" {
		g.metrics = metrics.NewCollector()
		ctrlOpts = append(ctrlOpts, driver.WithObserver(g.metrics))
	}
	if out != nil {
		// the terminal run ends at the limit, the window pauses there
		g.view = newTerminalView(config, logger, out)
		ctrlOpts = append(ctrlOpts, driver.WithObserver(g.view), driver.WithExitAtLimit())
	}
	g.ctrl = driver.New(engine, ctrlOpts...)
	if g.view != nil {
		g.view.ctrl = g.ctrl
	}

	if err := seedGrid(g.ctrl, config); err != nil {
		return nil, err
	}
	logger.Debug("game initialized", "size", config.Size, "seed", seed, "parallel", config.Parallel)
	return g, nil
}

// seedGrid fills a fresh grid from the configured patterns, the demo layout or random noise
func seedGrid(ctrl *driver.Controller, config utils.Config) error {
	switch {
	case len(config.Patterns) > 0:
		ctrl.Clear()
		return ctrl.LoadPlacements(config.Patterns)
	case config.Demo:
		ctrl.LoadDemo()
	default:
		ctrl.Randomize(config.RandomDensity)
	}
	return nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(g *game) {
	if g.view == nil {
		return
	}
	st := g.ctrl.Status()
	fmt.Fprintf(g.view.out, "Grid: %dx%d | Speed: %d gen/sec | Initial living cells: %d\n",
		st.Size, st.Size, st.Speed, st.Living)
	fmt.Fprintln(g.view.out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(g.view.out)
}

// displayFinalStats prints the run summary after the loop ends
func displayFinalStats(g *game) {
	if g.view == nil {
		return
	}
	stats := g.view.statsSnapshot()
	fmt.Fprintf(g.view.out, "\nFinal stats: %d generations in %.1f seconds\n",
		stats.TotalGenerations, stats.Runtime().Seconds())
	fmt.Fprintf(g.view.out, "Average: %.1f gen/sec, %.1f avg population, %d restarts\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Restarts)
}

// stagnationTracker remembers recent grid hashes to spot still lifes and short cycles
type stagnationTracker struct {
	history []string
}

// Observe records hash and reports whether it repeats one of the recent states
func (s *stagnationTracker) Observe(hash string) bool {
	stagnant := false
	if len(s.history) >= 2 {
		for _, h := range s.history {
			if h == hash {
				stagnant = true
				break
			}
		}
	}

	s.history = append(s.history, hash)
	if len(s.history) > historySize {
		s.history = s.history[1:]
	}
	return stagnant
}

// Reset forgets the history
func (s *stagnationTracker) Reset() {
	s.history = nil
}

// gameState is what the status line reports for one frame
type gameState struct {
	Generation int
	Living     int
	Density    float64
	Status     string
	Stagnant   bool
}

// updateGameState derives the status line from the controller status and the stagnation check
func updateGameState(st driver.Status, stagnant bool) gameState {
	state := gameState{
		Generation: st.Generation,
		Living:     st.Living,
		Stagnant:   stagnant,
		Status:     "Active",
	}
	if st.Size > 0 {
		state.Density = float64(st.Living) / float64(st.Size*st.Size) * 100
	}
	if !st.Playing {
		state.Status = "Paused"
	}
	if stagnant {
		state.Status = fmt.Sprintf("Stagnant (%d)", st.Generation)
	}
	if st.Living == 0 {
		state.Status = "Extinct"
	}
	return state
}

// displayGameStatus writes the status lines above the grid
func displayGameStatus(w io.Writer, state gameState, stats *utils.Stats) {
	fmt.Fprintf(w, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		state.Generation, state.Living, state.Density, state.Status)
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
	fmt.Fprintln(w)
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// restartGame reseeds the grid and keeps playing
func restartGame(ctrl *driver.Controller, config utils.Config) {
	ctrl.Randomize(config.RandomDensity)
	ctrl.Play()
}

// terminalView renders every state change to a terminal. It implements driver.Observer
type terminalView struct {
	mu sync.Mutex

	ctrl     *driver.Controller
	renderer *model.TerminalRenderer
	out      io.Writer
	config   utils.Config
	logger   *slog.Logger

	stats         *utils.Stats
	tracker       stagnationTracker
	stagnantCount int
	lastFrame     time.Time
}

func newTerminalView(config utils.Config, logger *slog.Logger, out io.Writer) *terminalView {
	return &terminalView{
		renderer:  model.NewTerminalRenderer(out),
		out:       out,
		config:    config,
		logger:    logger,
		stats:     utils.NewStats(),
		lastFrame: time.Now(),
	}
}

func (v *terminalView) OnStep(st driver.Status) {
	restart, reason := v.frame(st, true)
	if restart {
		v.logger.Info("restarting", "reason", reason, "generation", st.Generation)
		restartGame(v.ctrl, v.config)
	}
}

func (v *terminalView) OnReset(st driver.Status) {
	v.frame(st, false)
}

// frame draws one frame and reports whether the grid should be reseeded
func (v *terminalView) frame(st driver.Status, stepped bool) (bool, string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var hash string
	v.ctrl.View(func(e *model.Engine) { hash = e.Hash() })

	stagnant := false
	if stepped {
		now := time.Now()
		v.stats.Update(v.stats.TotalGenerations+1, st.Living, now.Sub(v.lastFrame))
		v.lastFrame = now
		stagnant = v.tracker.Observe(hash)
	} else {
		v.tracker.Reset()
		v.tracker.Observe(hash)
	}
	if stagnant {
		v.stagnantCount++
	} else {
		v.stagnantCount = 0
	}

	state := updateGameState(st, stagnant)
	if err := v.renderer.Clear(); err != nil {
		v.logger.Warn("failed to clear terminal", "error", err)
	}
	displayGameStatus(v.out, state, v.stats)
	v.ctrl.View(func(e *model.Engine) {
		if err := v.renderer.Display(e); err != nil {
			v.logger.Warn("failed to render grid", "error", err)
		}
	})

	if !stepped || !v.config.AutoRestart {
		return false, ""
	}
	restart, reason := checkRestartConditions(st.Living, v.stagnantCount, v.config)
	if restart {
		v.stats.Restarts++
		v.stagnantCount = 0
	}
	return restart, reason
}

// statsSnapshot returns a copy of the running stats
func (v *terminalView) statsSnapshot() utils.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return *v.stats
}
