package geometry

import "fmt"

// Rectangle is an axis-aligned rectangle: X,Y is the top-left corner,
// Width and Height are never negative. It is a value type, build a new one
// instead of mutating.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRectangle creates a Rectangle, negative sizes are clamped to zero.
func NewRectangle(x, y, width, height float64) Rectangle {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// CenteredSquare returns the square of the given side centered on c.
func CenteredSquare(c Vector2D, side float64) Rectangle {
	half := side / 2
	return NewRectangle(c.X-half, c.Y-half, side, side)
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%.2f, %.2f %.2fx%.2f]", r.X, r.Y, r.Width, r.Height)
}

// Right returns the x coordinate of the right edge.
func (r Rectangle) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rectangle) Bottom() float64 { return r.Y + r.Height }

// Center returns the middle point of the rectangle.
func (r Rectangle) Center() Vector2D {
	return Vector2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns Width*Height.
func (r Rectangle) Area() float64 { return r.Width * r.Height }

// IsEmpty reports whether the rectangle has no area, such a rectangle contains no point.
func (r Rectangle) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and other overlap or touch.
// Only a strict separation on one axis makes them disjoint, so the test is symmetric.
func (r Rectangle) Intersects(other Rectangle) bool {
	return !(other.X > r.Right() ||
		other.Right() < r.X ||
		other.Y > r.Bottom() ||
		other.Bottom() < r.Y)
}

// Contains reports whether p lies inside r.
// Left and top edges are inclusive, right and bottom edges exclusive: a point on
// the edge shared by two sibling quadrants belongs to exactly one of them.
func (r Rectangle) Contains(p Vector2D) bool {
	return r.X <= p.X && p.X < r.X+r.Width &&
		r.Y <= p.Y && p.Y < r.Y+r.Height
}
