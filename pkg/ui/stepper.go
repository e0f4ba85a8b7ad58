package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const stepperButtonSize = 20

// Stepper shows a value between a "-" and a "+" button.
// Clicking a button calls OnStep with -1 or +1; the owner decides what a step
// means and pushes the resulting value back with SetValue.
type Stepper struct {
	Label  string
	Value  float64
	Format string // fmt verb for Value, "%.3f" by default
	X, Y   float64
	Width  float64
	OnStep func(delta int)

	minus, plus *Button
}

// NewStepper creates a stepper whose buttons sit on the right of its width.
func NewStepper(x, y, width float64, label string, value float64, onStep func(delta int)) *Stepper {
	s := &Stepper{
		Label:  label,
		Value:  value,
		Format: "%.3f",
		X:      x,
		Y:      y,
		Width:  width,
		OnStep: onStep,
	}
	s.minus = NewButton(0, 0, stepperButtonSize, stepperButtonSize, "-", func() { s.step(-1) })
	s.plus = NewButton(0, 0, stepperButtonSize, stepperButtonSize, "+", func() { s.step(+1) })
	s.layout()
	return s
}

func (s *Stepper) step(delta int) {
	if s.OnStep != nil {
		s.OnStep(delta)
	}
}

func (s *Stepper) layout() {
	s.plus.X = s.X + s.Width - stepperButtonSize
	s.minus.X = s.plus.X - stepperButtonSize - 4
	s.minus.Y = s.Y + 14
	s.plus.Y = s.Y + 14
}

// SetValue updates the displayed value.
func (s *Stepper) SetValue(v float64) { s.Value = v }

// Click forwards a click at (mx, my) to the buttons.
func (s *Stepper) Click(mx, my int) bool {
	return s.minus.Click(mx, my) || s.plus.Click(mx, my)
}

func (s *Stepper) Update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.Click(ebiten.CursorPosition())
	}
}

func (s *Stepper) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, s.Label, int(s.X), int(s.Y))
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(s.Format, s.Value), int(s.X), int(s.Y+16))
	s.minus.Draw(screen)
	s.plus.Draw(screen)
}

func (s *Stepper) height() float64 { return 14 + stepperButtonSize + 8 }

func (s *Stepper) setY(y float64) {
	s.Y = y
	s.layout()
}
