// Package flock implements the boids flocking rules on top of a quadtree
// neighbour index.
//
// Every Update is split in two phases. The compute phase reads the agents as
// they were at the start of the frame and writes one steering force per agent
// into a buffer, the index being rebuilt from scratch beforehand. The
// integrate phase then applies those forces and moves every agent. The result
// does not depend on the order of the agents, and the compute phase can run on
// several goroutines.
package flock

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/quadtree"
)

// ParallelThreshold is the population below which the compute phase stays on
// the calling goroutine whatever the number of workers.
const ParallelThreshold = 256

// Steering holds the forces acting on one agent for one frame.
type Steering struct {
	Separation geometry.Vector2D
	Cohesion   geometry.Vector2D
	Alignment  geometry.Vector2D
	Seek       geometry.Vector2D
	Avoiding   int // neighbours within AvoidRadius
	Following  int // neighbours within FollowRadius
}

// Net is the force applied to the agent.
func (s Steering) Net() geometry.Vector2D {
	return s.Separation.Add(s.Cohesion).Add(s.Alignment).Add(s.Seek)
}

// Simulation owns a flock and its spatial index.
// It is not safe for concurrent use; the windowed app keeps it inside a
// single actor.
type Simulation struct {
	params Params
	agents []Agent
	index  *quadtree.Tree
	// indexed is true while index matches the current positions.
	indexed bool

	forces    []geometry.Vector2D
	following []int
	scratch   [][]int // one query buffer per worker
	frame     uint64
}

// New spawns p.NumBoids agents at random positions inside p.Bounds with
// random velocity components in [-p.InitialSpeed, p.InitialSpeed].
func New(p Params) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	agents := make([]Agent, p.NumBoids)
	for i := range agents {
		agents[i] = Agent{
			Position: geometry.Vector2D{
				X: p.Bounds.X + rng.Float64()*p.Bounds.Width,
				Y: p.Bounds.Y + rng.Float64()*p.Bounds.Height,
			},
			Velocity: geometry.Vector2D{
				X: (rng.Float64()*2 - 1) * p.InitialSpeed,
				Y: (rng.Float64()*2 - 1) * p.InitialSpeed,
			},
		}
	}
	return NewWithAgents(p, agents)
}

// NewWithAgents builds a simulation around the given agents, in that order.
// p.NumBoids is ignored. IDs are reassigned to the slice indexes, and the
// per-agent limits are taken from p.
func NewWithAgents(p Params, agents []Agent) (*Simulation, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: a flock needs at least one agent", ErrInvalidParams)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	index, err := quadtree.New(p.Bounds, p.Capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	workers := max(p.Workers, 1)
	s := &Simulation{
		params:    p,
		agents:    make([]Agent, len(agents)),
		index:     index,
		forces:    make([]geometry.Vector2D, len(agents)),
		following: make([]int, len(agents)),
		scratch:   make([][]int, workers),
	}
	s.params.NumBoids = len(agents)
	for i, a := range agents {
		a.ID = i
		a.MaxSpeed = p.MaxSpeed
		a.MaxForce = p.MaxForce
		a.Radius = p.Radius
		s.agents[i] = a
	}
	return s, nil
}

// Params returns the parameters the simulation was built with.
func (s *Simulation) Params() Params { return s.params }

// Len returns the number of agents.
func (s *Simulation) Len() int { return len(s.agents) }

// FrameNumber returns the number of completed updates.
func (s *Simulation) FrameNumber() uint64 { return s.frame }

// Agent returns a copy of agent i.
func (s *Simulation) Agent(i int) Agent { return s.agents[i] }

// Agents returns a copy of every agent, ordered by ID.
func (s *Simulation) Agents() []Agent {
	return append([]Agent(nil), s.agents...)
}

// Following returns, for each agent, the number of neighbours it followed
// during the last Update, all zero before the first one.
func (s *Simulation) Following() []int {
	return append([]int(nil), s.following...)
}

// IndexStats returns the shape of the index built during the last Update.
func (s *Simulation) IndexStats() quadtree.Stats { return s.index.Stats() }

func (s *Simulation) buildIndex() {
	if s.indexed {
		return
	}
	// the boundary was validated at construction, Reset cannot fail
	_ = s.index.Reset(s.params.Bounds)
	for i := range s.agents {
		// agents wrapped just outside the arena are left out of this frame's index
		s.index.Insert(s.agents[i].Position, i)
	}
	s.indexed = true
}

// Steer returns the forces that the next Update would apply to agent i.
// The flock itself is left unchanged.
func (s *Simulation) Steer(i int, w Weights) Steering {
	s.buildIndex()
	st, _ := s.steer(i, w, nil)
	return st
}

func (s *Simulation) steer(i int, w Weights, buf []int) (Steering, []int) {
	b := &s.agents[i]
	buf = s.index.QueryInto(buf[:0], geometry.CenteredSquare(b.Position, s.params.NeighborhoodSize))

	avoidSq := s.params.AvoidRadius * s.params.AvoidRadius
	followSq := s.params.FollowRadius * s.params.FollowRadius
	var st Steering
	var away, center, heading geometry.Vector2D
	for _, h := range buf {
		o := &s.agents[h]
		if o.ID == b.ID {
			continue
		}
		d := b.Position.DistanceSquaredTo(o.Position)
		if d <= avoidSq {
			away = away.Add(b.Position.Sub(o.Position))
			st.Avoiding++
		}
		if d <= followSq {
			center = center.Add(o.Position)
			heading = heading.Add(o.Velocity)
			st.Following++
		}
	}

	if st.Avoiding > 0 {
		st.Separation = away.Mul(1 / float64(st.Avoiding)).Normalize().Mul(w.Separation)
	}
	if st.Following > 0 {
		inv := 1 / float64(st.Following)
		st.Cohesion = center.Mul(inv).Sub(b.Position).Normalize().Mul(w.Cohesion)
		target := heading.Mul(inv).SetLen(b.MaxSpeed)
		st.Alignment = target.Sub(b.Velocity).Mul(w.Alignment)
	}
	if w.HasTarget && w.Seek != 0 {
		desired := w.Target.Sub(b.Position).SetLen(b.MaxSpeed)
		st.Seek = desired.Sub(b.Velocity).ClampLen(b.MaxForce).Mul(w.Seek)
	}
	return st, buf
}

func (s *Simulation) computeRange(start, end int, w Weights, buf *[]int) {
	var st Steering
	for i := start; i < end; i++ {
		st, *buf = s.steer(i, w, *buf)
		s.forces[i] = st.Net()
		s.following[i] = st.Following
	}
}

func (s *Simulation) computeForces(w Weights) {
	n := len(s.agents)
	workers := len(s.scratch)
	if workers <= 1 || n < ParallelThreshold {
		s.computeRange(0, n, w, &s.scratch[0])
		return
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for k := 0; k < workers; k++ {
		start := k * chunk
		if start >= n {
			break
		}
		end := min(start+chunk, n)
		buf := &s.scratch[k]
		g.Go(func() error {
			s.computeRange(start, end, w, buf)
			return nil
		})
	}
	_ = g.Wait()
}

// Update advances the flock by one frame using the weights w.
func (s *Simulation) Update(w Weights) {
	s.buildIndex()
	s.computeForces(w)
	for i := range s.agents {
		a := &s.agents[i]
		a.ApplyForce(s.forces[i])
		a.Update(s.params.Bounds, s.params.Boundary)
	}
	s.indexed = false
	s.frame++
}

// Snapshot copies the current state into a Frame. With cells set, the frame
// also carries the regions of the quadtree nodes indexing the current positions.
func (s *Simulation) Snapshot(w Weights, cells bool) Frame {
	f := Frame{
		Number:     s.frame,
		Bounds:     s.params.Bounds,
		Positions:  make([]geometry.Vector2D, len(s.agents)),
		Velocities: make([]geometry.Vector2D, len(s.agents)),
		Radii:      make([]float64, len(s.agents)),
		Weights:    w,
	}
	for i := range s.agents {
		f.Positions[i] = s.agents[i].Position
		f.Velocities[i] = s.agents[i].Velocity
		f.Radii[i] = s.agents[i].Radius
	}
	if cells {
		s.buildIndex()
		s.index.Walk(func(r geometry.Rectangle, _ int, _ int) {
			f.Cells = append(f.Cells, r)
		})
	}
	return f
}

// Present sends a snapshot of the flock to sink.
func (s *Simulation) Present(sink Sink, w Weights, cells bool) {
	sink.Present(s.Snapshot(w, cells))
}
