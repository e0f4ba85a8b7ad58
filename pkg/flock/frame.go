package flock

import "github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"

// Frame is a read-only copy of the flock handed to a renderer.
// Slices are indexed by agent ID and owned by the receiver.
type Frame struct {
	Number     uint64
	Bounds     geometry.Rectangle
	Positions  []geometry.Vector2D
	Velocities []geometry.Vector2D
	Radii      []float64
	Weights    Weights
	Cells      []geometry.Rectangle // quadtree node regions, only when requested
}

// Sink receives frames.
type Sink interface {
	Present(Frame)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Frame)

func (f SinkFunc) Present(fr Frame) { f(fr) }
