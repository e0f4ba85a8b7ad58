package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// hit reports whether the cursor (mx, my) lies on the rectangle x, y, w, h.
func hit(x, y, w, h float64, mx, my int) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}

// Button is a clickable UI button
type Button struct {
	Label   string
	X, Y    float64
	Width   float64
	Height  float64
	OnClick func()

	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewButton creates a new button instance
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

// Over reports whether the cursor at (mx, my) is on the button.
func (b *Button) Over(mx, my int) bool {
	return hit(b.X, b.Y, b.Width, b.Height, mx, my)
}

// Click fires OnClick when the cursor is on the button. It returns whether it fired.
func (b *Button) Click(mx, my int) bool {
	if !b.Over(mx, my) || b.OnClick == nil {
		return false
	}
	b.OnClick()
	return true
}

// Update fires OnClick once per press of the left mouse button.
func (b *Button) Update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.Click(ebiten.CursorPosition())
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	bgColor := b.BGColor
	if b.Over(ebiten.CursorPosition()) {
		bgColor = b.HoverColor
	}
	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		bgColor, true)
	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		1, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	// DebugPrint glyphs are 6px wide
	tx := b.X + (b.Width-float64(6*len(b.Label)))/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(tx), int(b.Y+b.Height/2-8))
}
