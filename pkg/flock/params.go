package flock

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/quadtree"
)

// ErrInvalidParams is wrapped by every construction error of a Simulation.
var ErrInvalidParams = errors.New("invalid flock parameters")

// Params holds everything a Simulation needs at construction.
// The tuning weights are not part of it, they are passed to every Update.
type Params struct {
	Bounds   geometry.Rectangle
	NumBoids int

	MaxSpeed     float64
	MaxForce     float64
	Radius       float64
	InitialSpeed float64 // initial velocity components are drawn in [-InitialSpeed, InitialSpeed]

	AvoidRadius      float64 // separation applies within this distance
	FollowRadius     float64 // cohesion and alignment apply within this distance
	NeighborhoodSize float64 // side of the square queried around each agent

	Capacity int // quadtree node capacity
	Boundary BoundaryPolicy
	Workers  int    // goroutines for the force computation, 0 or 1 means sequential
	Seed     uint64 // 0 picks a random seed
}

// DefaultParams mirrors the constants of the original demo, on a 1000x800 arena.
func DefaultParams() Params {
	return Params{
		Bounds:           geometry.NewRectangle(0, 0, 1000, 800),
		NumBoids:         1000,
		MaxSpeed:         3,
		MaxForce:         1,
		Radius:           1.5,
		InitialSpeed:     2,
		AvoidRadius:      10,
		FollowRadius:     15,
		NeighborhoodSize: 30,
		Capacity:         quadtree.DefaultCapacity,
		Boundary:         BoundaryWrap,
		Workers:          1,
	}
}

// validate checks everything except NumBoids, which only matters when the
// simulation spawns its own agents.
func (p Params) validate() error {
	switch {
	case p.Bounds.IsEmpty():
		return fmt.Errorf("%w: arena %s must have a positive width and height", ErrInvalidParams, p.Bounds)
	case p.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed must be positive, got %v", ErrInvalidParams, p.MaxSpeed)
	case p.MaxForce <= 0:
		return fmt.Errorf("%w: max force must be positive, got %v", ErrInvalidParams, p.MaxForce)
	case p.Radius < 0:
		return fmt.Errorf("%w: radius must not be negative, got %v", ErrInvalidParams, p.Radius)
	case p.InitialSpeed < 0:
		return fmt.Errorf("%w: initial speed must not be negative, got %v", ErrInvalidParams, p.InitialSpeed)
	case p.AvoidRadius < 0:
		return fmt.Errorf("%w: avoid radius must not be negative, got %v", ErrInvalidParams, p.AvoidRadius)
	case p.FollowRadius < p.AvoidRadius:
		return fmt.Errorf("%w: follow radius %v is smaller than avoid radius %v", ErrInvalidParams, p.FollowRadius, p.AvoidRadius)
	case p.NeighborhoodSize <= 0:
		return fmt.Errorf("%w: neighborhood size must be positive, got %v", ErrInvalidParams, p.NeighborhoodSize)
	case p.Capacity < 1:
		return fmt.Errorf("%w: quadtree capacity must be at least 1, got %d", ErrInvalidParams, p.Capacity)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParams, p.Workers)
	case p.Boundary != BoundaryWrap && p.Boundary != BoundaryReflect:
		return fmt.Errorf("%w: unknown boundary policy %s", ErrInvalidParams, p.Boundary)
	}
	return nil
}

// Validate reports whether p can build a Simulation with New.
func (p Params) Validate() error {
	if p.NumBoids <= 0 {
		return fmt.Errorf("%w: boid count must be positive, got %d", ErrInvalidParams, p.NumBoids)
	}
	return p.validate()
}
