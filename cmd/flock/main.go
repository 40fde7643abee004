// Command flock runs the interactive simulation with an ebiten renderer.
// The renderer is a collaborator of the core: it reads the engine's
// position/heading views each frame and never reaches into the pipeline.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/ui"
)

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.RGBA{R: 100, G: 200, B: 255, A: 255})
}

type Game struct {
	engine *flock.Engine

	panel            *ui.Panel
	widgetAlignment  *ui.Slider
	widgetCohesion   *ui.Slider
	widgetSeparation *ui.Slider
	widgetSpeed      *ui.Slider
	widgetCellSize   *ui.Slider

	worldW, worldH float64

	// Rolling average of the simulation step, in ms.
	stepAvg float64
}

func newGame(cfg *flock.Config) (*Game, error) {
	engine, err := flock.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	panel := ui.NewPanel(10, 10, 240)
	panel.AddSection("Force Weights")
	widgetAlignment := panel.AddSlider("Alignment", 0, 3, cfg.AlignmentWeight)
	widgetCohesion := panel.AddSlider("Cohesion", 0, 3, cfg.CohesionWeight)
	widgetSeparation := panel.AddSlider("Separation", 0, 3, cfg.SeparationWeight)
	panel.AddSection("Movement")
	widgetSpeed := panel.AddSlider("Speed", 0, 200, cfg.Speed)
	widgetCellSize := panel.AddSlider("Cell Size", 20, 300, cfg.CellSize)

	return &Game{
		engine:           engine,
		panel:            panel,
		widgetAlignment:  widgetAlignment,
		widgetCohesion:   widgetCohesion,
		widgetSeparation: widgetSeparation,
		widgetSpeed:      widgetSpeed,
		widgetCellSize:   widgetCellSize,
		worldW:           cfg.WorldWidth,
		worldH:           cfg.WorldHeight,
	}, nil
}

func (g *Game) Update() error {
	g.panel.Update()

	// Push the slider values into the engine between ticks.
	g.engine.SetWeights(g.widgetAlignment.Value, g.widgetCohesion.Value, g.widgetSeparation.Value)
	g.engine.SetSpeed(g.widgetSpeed.Value)
	g.engine.SetCellSize(g.widgetCellSize.Value)

	start := time.Now()
	if err := g.engine.Step(1.0 / 60.0); err != nil {
		// A failed tick is an unrecoverable simulation fault; ebiten
		// tears the run down when Update errors.
		return fmt.Errorf("simulation tick failed: %w", err)
	}
	g.stepAvg = g.stepAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	positions := g.engine.Positions()
	headings := g.engine.Headings()
	for i := range positions {
		drawBoid(screen, positions[i], headings[i])
	}

	g.panel.Draw(screen)

	stats := g.engine.Stats()
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nstep: %.2fms avg\ngrid: %v  forces: %v\nintegrate: %v  bounds: %v",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.stepAvg,
		stats.BuildGrid.Round(time.Microsecond), stats.ComputeForces.Round(time.Microsecond),
		stats.Integrate.Round(time.Microsecond), stats.ApplyBounds.Round(time.Microsecond))
	ebitenutil.DebugPrintAt(screen, msg, int(g.worldW)-230, 10)
}

// drawBoid renders one agent as a triangle pointing along its heading.
// Headings are unit vectors, so the tip is just position + heading*size.
func drawBoid(screen *ebiten.Image, pos, heading geometry.Vector2D) {
	if heading.LenSqr() == 0 {
		heading = geometry.Vector2D{X: 1, Y: 0}
	}
	tip := pos.Add(heading.Mul(6))
	right := pos.Add(heading.Rotate(2.5).Mul(5))
	left := pos.Add(heading.Rotate(-2.5).Mul(5))

	vertices := []ebiten.Vertex{
		{DstX: float32(tip.X), DstY: float32(tip.Y), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: float32(right.X), DstY: float32(right.Y), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: float32(left.X), DstY: float32(left.Y), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2}

	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

// Layout reports the logical screen size and forwards window resizes to the
// engine: only future boundary checks use the new bounds.
func (g *Game) Layout(w, h int) (int, int) {
	fw, fh := float64(w), float64(h)
	if fw > 0 && fh > 0 && (fw != g.worldW || fh != g.worldH) {
		if err := g.engine.Resize(fw, fh); err == nil {
			g.worldW, g.worldH = fw, fh
		}
	}
	return int(g.worldW), int(g.worldH)
}

func main() {
	configFile := flag.String("config", "", "JSON config file (defaults used when empty)")
	schemaFile := flag.String("schema", "config.schema.json", "JSON schema for config validation")
	flag.Parse()

	cfg := flock.DefaultConfig()
	if *configFile != "" {
		loaded, err := flock.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	game, err := newGame(cfg)
	if err != nil {
		log.Fatalf("creating simulation: %v", err)
	}
	defer game.engine.Close()

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("go-flock-sim")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
