package flock

import (
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

// Agent is a single boid.
// Boids is an artificial life program developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. The name "boid" is short
// for "bird-oid object". https://en.wikipedia.org/wiki/Boids
//
// Fields are exported so renderers and tests can read them directly.
// ID is the agent index inside its Simulation: unique and stable for the run.
type Agent struct {
	ID           int
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D
	MaxSpeed     float64
	MaxForce     float64
	Radius       float64
}

// ApplyForce accumulates force into the acceleration, clamping the result to
// MaxForce after every call. Applying many forces in one frame therefore never
// builds up more than MaxForce of steering.
func (a *Agent) ApplyForce(force geometry.Vector2D) {
	a.Acceleration = a.Acceleration.Add(force).ClampLen(a.MaxForce)
}

// Update integrates one frame: velocity += acceleration (clamped to MaxSpeed),
// position += velocity, acceleration reset, then the boundary policy.
func (a *Agent) Update(bounds geometry.Rectangle, policy BoundaryPolicy) {
	a.Velocity = a.Velocity.Add(a.Acceleration).ClampLen(a.MaxSpeed)
	a.Position = a.Position.Add(a.Velocity)
	a.Acceleration = geometry.Vector2D{}
	switch policy {
	case BoundaryReflect:
		a.Reflect(bounds)
	default:
		a.Wrap(bounds)
	}
}

// Wrap moves an agent whose body has fully left one side of bounds next to
// the opposite side, just outside of it. Once wrapped, a second call is a no-op.
func (a *Agent) Wrap(bounds geometry.Rectangle) {
	r := a.Radius
	if a.Position.X+r < bounds.X {
		a.Position.X = bounds.Right() + r
	} else if a.Position.X-r > bounds.Right() {
		a.Position.X = bounds.X - r
	}
	if a.Position.Y+r < bounds.Y {
		a.Position.Y = bounds.Bottom() + r
	} else if a.Position.Y-r > bounds.Bottom() {
		a.Position.Y = bounds.Y - r
	}
}

// Reflect bounces an agent whose body crosses an edge of bounds: the velocity
// component pointing out of the arena is negated, the position is untouched.
// An agent already heading back inside is left alone, so it cannot get stuck
// flipping its velocity every frame.
func (a *Agent) Reflect(bounds geometry.Rectangle) {
	r := a.Radius
	if (a.Position.X-r < bounds.X && a.Velocity.X < 0) ||
		(a.Position.X+r > bounds.Right() && a.Velocity.X > 0) {
		a.Velocity.X = -a.Velocity.X
	}
	if (a.Position.Y-r < bounds.Y && a.Velocity.Y < 0) ||
		(a.Position.Y+r > bounds.Bottom() && a.Velocity.Y > 0) {
		a.Velocity.Y = -a.Velocity.Y
	}
}

// BoundaryPolicy selects what happens to an agent reaching the arena edge.
type BoundaryPolicy int

const (
	BoundaryWrap BoundaryPolicy = iota
	BoundaryReflect
)

func (p BoundaryPolicy) String() string {
	switch p {
	case BoundaryWrap:
		return "wrap"
	case BoundaryReflect:
		return "reflect"
	default:
		return fmt.Sprintf("BoundaryPolicy(%d)", int(p))
	}
}

// ParseBoundaryPolicy converts "wrap" or "reflect" (any case) to a BoundaryPolicy.
// The empty string means wrap.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wrap":
		return BoundaryWrap, nil
	case "reflect":
		return BoundaryReflect, nil
	default:
		return BoundaryWrap, fmt.Errorf("%w: unknown boundary policy %q", ErrInvalidParams, s)
	}
}
