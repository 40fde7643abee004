// Command headless runs the simulation without a window, for benchmarking
// and soak runs. It steps the engine at a fixed 60 Hz timestep, aggregates
// per-tick timings into windows and writes them as structured logs and CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/render"
	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/telemetry"
)

const fixedDt = 1.0 / 60.0

func main() {
	configFile := flag.String("config", "", "JSON config file (defaults used when empty)")
	schemaFile := flag.String("schema", "config.schema.json", "JSON schema for config validation")
	ticks := flag.Uint64("ticks", 3600, "number of ticks to simulate (0 means run until interrupted)")
	windowSize := flag.Int("window", 60, "ticks per telemetry window")
	outputDir := flag.String("output-dir", "", "directory for CSV telemetry (disabled when empty)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger, *configFile, *schemaFile, *ticks, *windowSize, *outputDir); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configFile, schemaFile string, ticks uint64, windowSize int, outputDir string) error {
	cfg := flock.DefaultConfig()
	if configFile != "" {
		loaded, err := flock.LoadConfig(configFile, schemaFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	engine, err := flock.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	var output *telemetry.OutputManager
	if outputDir != "" {
		output, err = telemetry.NewOutputManager(outputDir)
		if err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		defer output.Close()
	}

	logger.Info("simulation starting",
		"agents", cfg.AgentCount,
		"world", fmt.Sprintf("%.0fx%.0f", cfg.WorldWidth, cfg.WorldHeight),
		"cellSize", cfg.CellSize,
		"workers", cfg.Workers,
		"boundary", cfg.Boundary,
		"ticks", ticks)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statsCh := make(chan flock.FrameStats, 64)

	g, ctx := errgroup.WithContext(ctx)

	// Simulation loop. The instance buffer stands in for a GPU upload:
	// it touches every transform each tick so the timings stay honest.
	g.Go(func() error {
		defer close(statsCh)
		instances := render.NewInstanceBuffer(engine.AgentCount())
		for tick := uint64(0); ticks == 0 || tick < ticks; tick++ {
			if err := ctx.Err(); err != nil {
				return nil
			}
			if err := engine.Step(fixedDt); err != nil {
				return fmt.Errorf("tick %d: %w", tick, err)
			}
			instances.Update(engine.Positions(), engine.Headings())
			select {
			case statsCh <- engine.Stats():
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	// Telemetry sink.
	g.Go(func() error {
		collector := telemetry.NewCollector(windowSize)
		for stats := range statsCh {
			window, done := collector.Record(stats)
			if !done {
				continue
			}
			window.Log(logger)
			if err := output.WritePerf(window); err != nil {
				return fmt.Errorf("writing telemetry: %w", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	final := engine.Stats()
	logger.Info("simulation finished", "ticks", final.Tick)
	return nil
}
