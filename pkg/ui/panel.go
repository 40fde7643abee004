package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel stacks sliders vertically inside a translucent box so the demo can
// expose the simulation tunables without an external config round-trip.
type Panel struct {
	X, Y    float64
	Width   float64
	sliders []*Slider
	labels  []string // section headers interleaved by index
	nextY   float64

	BGColor     color.RGBA
	BorderColor color.RGBA
}

// NewPanel creates an empty panel at the given position.
func NewPanel(x, y, width float64) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		nextY:       y + 28,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection adds a section header above the next widget.
func (p *Panel) AddSection(title string) {
	p.labels = append(p.labels, title)
	p.sliders = append(p.sliders, nil) // placeholder keeping order
	p.nextY += 22
}

// AddSlider appends a slider and returns it so the caller can read Value
// each frame.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, p.nextY+16, p.Width-20, label, min, max, value)
	p.labels = append(p.labels, "")
	p.sliders = append(p.sliders, s)
	p.nextY += 36
	return s
}

// Update handles input for all widgets.
func (p *Panel) Update() {
	for _, s := range p.sliders {
		if s != nil {
			s.Update()
		}
	}
}

// Draw renders the panel background and every widget.
func (p *Panel) Draw(screen *ebiten.Image) {
	height := p.nextY - p.Y + 10
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(height),
		p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, "Simulation", int(p.X+10), int(p.Y+6))

	y := p.Y + 28
	for i, s := range p.sliders {
		if s == nil {
			ebitenutil.DebugPrintAt(screen, "-- "+p.labels[i]+" --", int(p.X+10), int(y+2))
			y += 22
			continue
		}
		s.Draw(screen)
		y += 36
	}
}
