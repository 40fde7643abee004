// Package telemetry aggregates per-tick frame timings into rolling-window
// statistics and writes them to structured logs and CSV files. It observes
// the simulation core from outside; the core never depends on it.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/flock"
)

// FrameBudget is the real-time budget for one tick at 60 frames per second.
const FrameBudget = time.Second / 60

// WindowStats summarizes one window of ticks. Durations are milliseconds so
// the CSV stays directly plottable.
type WindowStats struct {
	WindowEnd uint64 `csv:"window_end"` // tick number closing the window
	Ticks     int    `csv:"ticks"`

	TickMeanMs float64 `csv:"tick_mean_ms"`
	TickP50Ms  float64 `csv:"tick_p50_ms"`
	TickP90Ms  float64 `csv:"tick_p90_ms"`
	TickMaxMs  float64 `csv:"tick_max_ms"`

	// Per-phase averages over the window.
	BuildGridMs float64 `csv:"build_grid_ms"`
	ForcesMs    float64 `csv:"forces_ms"`
	IntegrateMs float64 `csv:"integrate_ms"`
	BoundsMs    float64 `csv:"bounds_ms"`

	// Ticks that blew the 16.6ms frame budget.
	OverBudget int `csv:"over_budget"`
}

// Log emits the window through the given structured logger.
func (w WindowStats) Log(l *slog.Logger) {
	l.Info("frame window",
		"window_end", w.WindowEnd,
		"ticks", w.Ticks,
		"tick_mean_ms", w.TickMeanMs,
		"tick_p50_ms", w.TickP50Ms,
		"tick_p90_ms", w.TickP90Ms,
		"tick_max_ms", w.TickMaxMs,
		"build_grid_ms", w.BuildGridMs,
		"forces_ms", w.ForcesMs,
		"integrate_ms", w.IntegrateMs,
		"bounds_ms", w.BoundsMs,
		"over_budget", w.OverBudget,
	)
}

// Collector accumulates FrameStats and produces a WindowStats every
// windowSize ticks.
type Collector struct {
	windowSize int
	samples    []flock.FrameStats
}

// NewCollector creates a collector. windowSize < 1 defaults to 60, one
// window per second at the target tick rate.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &Collector{
		windowSize: windowSize,
		samples:    make([]flock.FrameStats, 0, windowSize),
	}
}

// Record adds one tick's timings. When the window fills, the aggregated
// stats are returned with true and the window starts over.
func (c *Collector) Record(s flock.FrameStats) (WindowStats, bool) {
	c.samples = append(c.samples, s)
	if len(c.samples) < c.windowSize {
		return WindowStats{}, false
	}
	w := c.aggregate()
	c.samples = c.samples[:0]
	return w, true
}

func (c *Collector) aggregate() WindowStats {
	n := len(c.samples)
	totals := make([]float64, n)

	w := WindowStats{
		WindowEnd: c.samples[n-1].Tick,
		Ticks:     n,
	}

	var grid, forces, integrate, bounds float64
	for i, s := range c.samples {
		totals[i] = ms(s.Total)
		grid += ms(s.BuildGrid)
		forces += ms(s.ComputeForces)
		integrate += ms(s.Integrate)
		bounds += ms(s.ApplyBounds)
		if s.Total > FrameBudget {
			w.OverBudget++
		}
	}

	w.TickMeanMs = stat.Mean(totals, nil)
	sort.Float64s(totals)
	w.TickP50Ms = stat.Quantile(0.5, stat.Empirical, totals, nil)
	w.TickP90Ms = stat.Quantile(0.9, stat.Empirical, totals, nil)
	w.TickMaxMs = totals[n-1]

	fn := float64(n)
	w.BuildGridMs = grid / fn
	w.ForcesMs = forces / fn
	w.IntegrateMs = integrate / fn
	w.BoundsMs = bounds / fn
	return w
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
