// Package terminal draws the flock in a character terminal with tcell and
// turns key presses into tuning events.
package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

var (
	boidStyle   = tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	cellStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// headings are indexed by octant, counter-clockwise from east on screen.
var headings = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// Renderer is a flock.Sink drawing every frame on a tcell screen. The arena is
// stretched over the whole screen except the bottom row, used for status.
type Renderer struct {
	screen tcell.Screen
	frames int
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Frames returns the number of frames drawn so far.
func (r *Renderer) Frames() int { return r.frames }

// project maps an arena position to a screen cell of a cols x rows grid.
func project(p geometry.Vector2D, bounds geometry.Rectangle, cols, rows int) (int, int, bool) {
	if cols <= 0 || rows <= 0 || !bounds.Contains(p) {
		return 0, 0, false
	}
	x := int((p.X - bounds.X) / bounds.Width * float64(cols))
	y := int((p.Y - bounds.Y) / bounds.Height * float64(rows))
	return min(x, cols-1), min(y, rows-1), true
}

// headingRune returns an arrow close to the direction of v. Screen y grows
// downwards, so the angle is taken with y flipped.
func headingRune(v geometry.Vector2D) rune {
	if v.IsZero() {
		return '•'
	}
	a := math.Atan2(-v.Y, v.X)
	octant := int(math.Round(a/(math.Pi/4))) & 7
	return headings[octant]
}

func (r *Renderer) Present(f flock.Frame) {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	rows-- // status line

	for _, c := range f.Cells {
		if x, y, ok := project(geometry.Vector2D{X: c.X, Y: c.Y}, f.Bounds, cols, rows); ok {
			r.screen.SetContent(x, y, '+', nil, cellStyle)
		}
	}

	for i, p := range f.Positions {
		x, y, ok := project(p, f.Bounds, cols, rows)
		if !ok {
			continue
		}
		r.screen.SetContent(x, y, headingRune(f.Velocities[i]), nil, boidStyle)
	}

	r.drawStatus(f, cols, rows)
	r.screen.Show()
	r.frames++
}

func (r *Renderer) drawStatus(f flock.Frame, cols, row int) {
	w := f.Weights
	line := fmt.Sprintf(" frame %d  boids %d  sep %.2f coh %.2f ali %.2f  [1/q 2/w 3/e] tune  [o] quadtree  [p] pause  [Esc] quit",
		f.Number, len(f.Positions), w.Separation, w.Cohesion, w.Alignment)
	runes := []rune(line)
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		r.screen.SetContent(x, row, ch, nil, statusStyle)
	}
}
