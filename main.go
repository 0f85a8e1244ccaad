package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/lifegrid/gui"
	"github.com/sheikhrachel/lifegrid/logging"
	"github.com/sheikhrachel/lifegrid/model"
	"github.com/sheikhrachel/lifegrid/utils"
)

const defaultConfigFile = "config.json"

var (
	configFile string
	logLevel   string
	logFormat  string

	size           int
	speed          int
	density        float64
	maxGenerations int
	parallel       int
	seed           int64
	random         bool
	autoRestart    bool
	metricsAddr    string
	cellSize       int

	rootCmd = &cobra.Command{
		Use:           "lifegrid",
		Short:         "Conway's Game of Life on a bounded square grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the simulation in the terminal",
		RunE:  runTerminal,
	}

	guiCmd = &cobra.Command{
		Use:   "gui",
		Short: "Open the interactive window (requires the ebiten build tag)",
		RunE:  runGUI,
	}

	patternsCmd = &cobra.Command{
		Use:   "patterns",
		Short: "List the named seed patterns",
		Run:   listPatterns,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "JSON or YAML config file (default "+defaultConfigFile+" when present)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json")
	pf.IntVarP(&size, "size", "n", 0, "grid dimension")
	pf.IntVarP(&speed, "speed", "s", 0, "generations per second")
	pf.Float64Var(&density, "density", 0, "alive probability used by randomize")
	pf.IntVar(&parallel, "parallel", 0, "row-band workers per step (0 or 1 for sequential)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.BoolVar(&random, "random", false, "start from a random grid instead of the demo patterns")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	runCmd.Flags().IntVarP(&maxGenerations, "generations", "g", 0, "stop after this many generations (0 runs until interrupted)")
	runCmd.Flags().BoolVar(&autoRestart, "auto-restart", false, "reseed when the grid dies out or stagnates")
	guiCmd.Flags().IntVar(&cellSize, "cell-size", 12, "pixels per cell")

	rootCmd.AddCommand(runCmd, guiCmd, patternsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lifegrid:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command) (utils.Config, error) {
	config := utils.DefaultConfig()
	switch {
	case configFile != "":
		var err error
		if config, err = utils.LoadConfig(configFile); err != nil {
			return config, err
		}
	default:
		// fallback to defaults if config.json doesn't exist
		if loaded, err := utils.LoadConfig(defaultConfigFile); err == nil {
			config = loaded
		} else if !os.IsNotExist(errors.Cause(err)) {
			return config, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		config.LogFormat = logFormat
	}
	if flags.Changed("size") {
		config.Size = size
	}
	if flags.Changed("speed") {
		config.Speed = speed
	}
	if flags.Changed("density") {
		config.RandomDensity = density
	}
	if flags.Changed("parallel") {
		config.Parallel = parallel
	}
	if flags.Changed("seed") {
		config.Seed = seed
	}
	if flags.Changed("random") {
		config.Demo = !random
	}
	if flags.Changed("metrics-addr") {
		config.MetricsAddr = metricsAddr
	}
	if flags.Changed("generations") {
		config.MaxGenerations = maxGenerations
	}
	if flags.Changed("auto-restart") {
		config.AutoRestart = autoRestart
	}

	return config, config.Validate()
}

func newLogger(config utils.Config) *slog.Logger {
	return logging.New(logging.Config{Level: config.LogLevel, Format: config.LogFormat})
}

func runTerminal(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(config)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, err := initializeGame(config, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	serveMetrics(ctx, g, config, logger)
	displayGameInfo(g)

	g.ctrl.Play()
	err = g.ctrl.Run(ctx)
	displayFinalStats(g)

	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down", "generation", g.ctrl.Status().Generation)
		return nil
	}
	return err
}

func runGUI(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(config)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, err := initializeGame(config, logger, nil)
	if err != nil {
		return err
	}
	serveMetrics(ctx, g, config, logger)

	return gui.Run(ctx, g.ctrl, gui.Options{
		CellSize: cellSize,
		Density:  config.RandomDensity,
		Logger:   logger,
	})
}

func listPatterns(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	for _, name := range model.PatternNames() {
		p, _ := model.LookupPattern(name)
		fmt.Fprintf(out, "%-8s %dx%d  %d cells\n", name, p.Width(), p.Height(), p.Population())
	}
}

func serveMetrics(ctx context.Context, g *game, config utils.Config, logger *slog.Logger) {
	if g.metrics == nil {
		return
	}
	go func() {
		if err := g.metrics.Serve(ctx, config.MetricsAddr); err != nil {
			logger.Error("metrics server stopped", "addr", config.MetricsAddr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", config.MetricsAddr)
}
