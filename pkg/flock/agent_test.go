package flock

import (
	"errors"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

func newTestAgent(pos, vel geometry.Vector2D) Agent {
	return Agent{Position: pos, Velocity: vel, MaxSpeed: 3, MaxForce: 1, Radius: 2}
}

func TestAgent_ApplyForceClampsEveryApplication(t *testing.T) {
	a := newTestAgent(geometry.Vector2D{}, geometry.Vector2D{})
	for i := 0; i < 10; i++ {
		a.ApplyForce(geometry.Vector2D{X: 0.8})
		if l := a.Acceleration.Len(); l > a.MaxForce+geometry.Epsilon {
			t.Fatalf("after %d forces |acceleration| = %v; want <= %v", i+1, l, a.MaxForce)
		}
	}
	if want := (geometry.Vector2D{X: 1}); !a.Acceleration.Eq(want) {
		t.Errorf("Acceleration = %v; want %v", a.Acceleration, want)
	}

	// opposite forces cancel from the clamped value, not from the raw sum
	a.ApplyForce(geometry.Vector2D{X: -1})
	if !a.Acceleration.IsZero() {
		t.Errorf("Acceleration = %v after an opposite force of MaxForce; want zero", a.Acceleration)
	}
}

func TestAgent_UpdateClampsSpeed(t *testing.T) {
	bounds := geometry.NewRectangle(-1e6, -1e6, 2e6, 2e6)
	tests := []struct {
		name     string
		velocity geometry.Vector2D
		force    geometry.Vector2D
	}{
		{"at rest", geometry.Vector2D{}, geometry.Vector2D{}},
		{"huge velocity", geometry.Vector2D{X: 1e6, Y: -3e5}, geometry.Vector2D{}},
		{"huge force", geometry.Vector2D{X: 2.9}, geometry.Vector2D{X: 1e9, Y: 1e9}},
		{"both huge", geometry.Vector2D{X: -1e8, Y: 1e8}, geometry.Vector2D{X: -1e8}},
		{"just below", geometry.Vector2D{Y: 2.99}, geometry.Vector2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAgent(geometry.Vector2D{}, tt.velocity)
			a.ApplyForce(tt.force)
			a.Update(bounds, BoundaryWrap)
			if l := a.Velocity.Len(); l > a.MaxSpeed+geometry.Epsilon {
				t.Errorf("|velocity| = %v; want <= %v", l, a.MaxSpeed)
			}
			if !a.Acceleration.IsZero() {
				t.Errorf("Acceleration = %v after Update; want zero", a.Acceleration)
			}
			if !a.Position.Eq(a.Velocity) {
				t.Errorf("Position = %v; want the new velocity %v", a.Position, a.Velocity)
			}
		})
	}
}

func TestAgent_Wrap(t *testing.T) {
	const eps = 1e-3
	bounds := geometry.NewRectangle(0, 0, 100, 50)
	r := 2.0
	tests := []struct {
		name string
		pos  geometry.Vector2D
		want geometry.Vector2D
	}{
		{"left", geometry.Vector2D{X: bounds.X - r - eps, Y: 10}, geometry.Vector2D{X: bounds.Right() + r, Y: 10}},
		{"right", geometry.Vector2D{X: bounds.Right() + r + eps, Y: 10}, geometry.Vector2D{X: bounds.X - r, Y: 10}},
		{"top", geometry.Vector2D{X: 10, Y: bounds.Y - r - eps}, geometry.Vector2D{X: 10, Y: bounds.Bottom() + r}},
		{"bottom", geometry.Vector2D{X: 10, Y: bounds.Bottom() + r + eps}, geometry.Vector2D{X: 10, Y: bounds.Y - r}},
		{"corner", geometry.Vector2D{X: -10, Y: -10}, geometry.Vector2D{X: bounds.Right() + r, Y: bounds.Bottom() + r}},
		{"partly out stays", geometry.Vector2D{X: -1, Y: 49}, geometry.Vector2D{X: -1, Y: 49}},
		{"inside stays", geometry.Vector2D{X: 30, Y: 30}, geometry.Vector2D{X: 30, Y: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAgent(tt.pos, geometry.Vector2D{})
			a.Radius = r
			a.Wrap(bounds)
			if !a.Position.Eq(tt.want) {
				t.Fatalf("Wrap(%v) = %v; want %v", tt.pos, a.Position, tt.want)
			}
			once := a.Position
			a.Wrap(bounds)
			if a.Position != once {
				t.Errorf("second Wrap moved the agent from %v to %v", once, a.Position)
			}
		})
	}

	t.Run("body edge lands on the opposite edge", func(t *testing.T) {
		a := newTestAgent(geometry.Vector2D{X: bounds.X - r - eps, Y: 25}, geometry.Vector2D{})
		a.Radius = r
		a.Wrap(bounds)
		if d := math.Abs((a.Position.X - r) - bounds.Right()); d > eps {
			t.Errorf("left body edge at %v; want within %v of %v", a.Position.X-r, eps, bounds.Right())
		}
	})
}

func TestAgent_Reflect(t *testing.T) {
	bounds := geometry.NewRectangle(0, 0, 100, 100)
	tests := []struct {
		name    string
		pos     geometry.Vector2D
		vel     geometry.Vector2D
		wantVel geometry.Vector2D
	}{
		{"leaving left", geometry.Vector2D{X: 1, Y: 50}, geometry.Vector2D{X: -2, Y: 1}, geometry.Vector2D{X: 2, Y: 1}},
		{"leaving right", geometry.Vector2D{X: 99, Y: 50}, geometry.Vector2D{X: 2, Y: 1}, geometry.Vector2D{X: -2, Y: 1}},
		{"leaving top", geometry.Vector2D{X: 50, Y: 0.5}, geometry.Vector2D{X: 1, Y: -1}, geometry.Vector2D{X: 1, Y: 1}},
		{"leaving bottom", geometry.Vector2D{X: 50, Y: 150}, geometry.Vector2D{X: 1, Y: 3}, geometry.Vector2D{X: 1, Y: -3}},
		{"leaving corner", geometry.Vector2D{X: -5, Y: -5}, geometry.Vector2D{X: -1, Y: -1}, geometry.Vector2D{X: 1, Y: 1}},
		{"already coming back", geometry.Vector2D{X: -5, Y: 50}, geometry.Vector2D{X: 2, Y: 0}, geometry.Vector2D{X: 2, Y: 0}},
		{"inside", geometry.Vector2D{X: 50, Y: 50}, geometry.Vector2D{X: -3, Y: 3}, geometry.Vector2D{X: -3, Y: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAgent(tt.pos, tt.vel)
			a.Reflect(bounds)
			if a.Velocity != tt.wantVel {
				t.Errorf("Velocity = %v; want %v", a.Velocity, tt.wantVel)
			}
			if a.Position != tt.pos {
				t.Errorf("Reflect moved the agent from %v to %v", tt.pos, a.Position)
			}
		})
	}
}

func TestParseBoundaryPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    BoundaryPolicy
		wantErr bool
	}{
		{"", BoundaryWrap, false},
		{"wrap", BoundaryWrap, false},
		{" Reflect ", BoundaryReflect, false},
		{"bounce", BoundaryWrap, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoundaryPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBoundaryPolicy(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("error %v does not wrap ErrInvalidParams", err)
			}
			if got != tt.want {
				t.Errorf("ParseBoundaryPolicy(%q) = %v; want %v", tt.in, got, tt.want)
			}
			if err == nil && tt.in != "" {
				if back, _ := ParseBoundaryPolicy(got.String()); back != got {
					t.Errorf("String() of %v does not parse back", got)
				}
			}
		})
	}
}

func TestWeights_Apply(t *testing.T) {
	w := DefaultWeights()
	events := []TuningEvent{
		{SeparationWeight, +1},
		{SeparationWeight, +1},
		{CohesionWeight, -1},
		{AlignmentWeight, -3},
		{WeightKind(42), +1},
	}
	for _, ev := range events {
		w.Apply(ev, DefaultTuningStep)
	}
	want := map[WeightKind]float64{
		SeparationWeight: 0.52,
		CohesionWeight:   0.09,
		AlignmentWeight:  -0.01,
	}
	for k, v := range want {
		if got := w.Get(k); math.Abs(got-v) > 1e-12 {
			t.Errorf("%s = %v; want %v", k, got, v)
		}
	}

	for _, k := range []WeightKind{SeparationWeight, CohesionWeight, AlignmentWeight} {
		parsed, err := ParseWeightKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseWeightKind(%q) = %v, %v", k.String(), parsed, err)
		}
	}
	if _, err := ParseWeightKind("speed"); err == nil {
		t.Error("ParseWeightKind(\"speed\") succeeded")
	}
}

func TestTuningKeys(t *testing.T) {
	for _, k := range []WeightKind{SeparationWeight, CohesionWeight, AlignmentWeight} {
		up, down := 0, 0
		for _, ev := range TuningKeys {
			if ev.Weight != k {
				continue
			}
			switch ev.Delta {
			case +1:
				up++
			case -1:
				down++
			}
		}
		if up != 1 || down != 1 {
			t.Errorf("%s has %d increase and %d decrease keys; want one of each", k, up, down)
		}
	}
	if ev := TuningKeys['w']; ev.Weight != CohesionWeight || ev.Delta != -1 {
		t.Errorf("TuningKeys['w'] = %v; want cohesion-1", ev)
	}
}
