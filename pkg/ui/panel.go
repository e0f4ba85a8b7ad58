package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is an element stacked vertically inside a Panel.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	height() float64
	setY(y float64)
}

const (
	panelTitleHeight   = 24
	panelSectionHeight = 25
	panelMargin        = 10
)

type section struct {
	title string
	y     float64
}

// Panel lays widgets out top to bottom under optional section headers.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Hidden        bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	widgets  []Widget
	sections []section
	nextY    float64
}

// NewPanel creates an empty panel; Height grows as widgets are added.
func NewPanel(title string, x, y, width float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      panelTitleHeight,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 210},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		nextY:       y + panelTitleHeight,
	}
}

// AddSection starts a new section; the following widgets go under its header.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, y: p.nextY})
	p.nextY += panelSectionHeight
	p.Height = p.nextY - p.Y
}

func (p *Panel) add(w Widget) {
	w.setY(p.nextY)
	p.widgets = append(p.widgets, w)
	p.nextY += w.height()
	p.Height = p.nextY - p.Y + panelMargin/2
}

// AddStepper appends a stepper spanning the panel width.
func (p *Panel) AddStepper(label string, value float64, onStep func(delta int)) *Stepper {
	s := NewStepper(p.X+panelMargin, 0, p.Width-2*panelMargin, label, value, onStep)
	p.add(s)
	return s
}

// AddCheckbox appends a checkbox.
func (p *Panel) AddCheckbox(label string, value bool, onChange func(bool)) *Checkbox {
	c := NewCheckbox(p.X+panelMargin, 0, label, value)
	c.OnChange = onChange
	p.add(c)
	return c
}

// Contains reports whether (mx, my) is on the visible panel.
func (p *Panel) Contains(mx, my int) bool {
	return !p.Hidden && hit(p.X, p.Y, p.Width, p.Height, mx, my)
}

func (p *Panel) Update() {
	if p.Hidden {
		return
	}
	for _, w := range p.widgets {
		w.Update()
	}
}

func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+panelMargin), int(p.Y+5))

	for _, s := range p.sections {
		vector.FillRect(screen,
			float32(p.X+5), float32(s.y),
			float32(p.Width-10), 20,
			color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
		ebitenutil.DebugPrintAt(screen, s.title, int(p.X+panelMargin), int(s.y+3))
	}
	for _, w := range p.widgets {
		w.Draw(screen)
	}
}
