package flock

import (
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

// DefaultTuningStep is the amount one tuning event adds to or removes from a weight.
const DefaultTuningStep = 0.01

// WeightKind names one of the tunable flocking weights.
type WeightKind int

const (
	SeparationWeight WeightKind = iota
	CohesionWeight
	AlignmentWeight
)

func (k WeightKind) String() string {
	switch k {
	case SeparationWeight:
		return "separation"
	case CohesionWeight:
		return "cohesion"
	case AlignmentWeight:
		return "alignment"
	default:
		return fmt.Sprintf("WeightKind(%d)", int(k))
	}
}

// ParseWeightKind is the inverse of WeightKind.String.
func ParseWeightKind(s string) (WeightKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "separation":
		return SeparationWeight, nil
	case "cohesion":
		return CohesionWeight, nil
	case "alignment":
		return AlignmentWeight, nil
	default:
		return SeparationWeight, fmt.Errorf("unknown weight %q", s)
	}
}

// TuningEvent is a discrete request to move one weight by Delta steps,
// typically +1 or -1 from a key press or a panel button.
type TuningEvent struct {
	Weight WeightKind
	Delta  int
}

func (e TuningEvent) String() string {
	return fmt.Sprintf("%s%+d", e.Weight, e.Delta)
}

// Weights are the tuning factors of the three flocking rules, plus an
// optional seek toward Target (the mouse cursor in the windowed app).
// No range is enforced: negative or very large values are valid and give
// odd but well defined flocks.
type Weights struct {
	Separation float64 `json:"separation"`
	Cohesion   float64 `json:"cohesion"`
	Alignment  float64 `json:"alignment"`

	Seek      float64           `json:"seek"`
	Target    geometry.Vector2D `json:"target"`
	HasTarget bool              `json:"hasTarget"`
}

// DefaultWeights returns the factors of the original boids demo:
// separation 0.5, cohesion 1/10, alignment 1/50, no seek.
func DefaultWeights() Weights {
	return Weights{
		Separation: 0.5,
		Cohesion:   0.1,
		Alignment:  0.02,
	}
}

// Get returns the weight named k.
func (w Weights) Get(k WeightKind) float64 {
	switch k {
	case SeparationWeight:
		return w.Separation
	case CohesionWeight:
		return w.Cohesion
	case AlignmentWeight:
		return w.Alignment
	}
	return 0
}

// Apply moves the weight named by ev by ev.Delta*step. Unknown weights are ignored.
func (w *Weights) Apply(ev TuningEvent, step float64) {
	d := float64(ev.Delta) * step
	switch ev.Weight {
	case SeparationWeight:
		w.Separation += d
	case CohesionWeight:
		w.Cohesion += d
	case AlignmentWeight:
		w.Alignment += d
	}
}

func (w Weights) String() string {
	return fmt.Sprintf("separation=%.3f cohesion=%.3f alignment=%.3f", w.Separation, w.Cohesion, w.Alignment)
}

// TuningKeys maps the keys shared by every front-end to tuning events:
// 1/q separation, 2/w cohesion, 3/e alignment, digit up and letter down.
var TuningKeys = map[rune]TuningEvent{
	'1': {SeparationWeight, +1},
	'q': {SeparationWeight, -1},
	'2': {CohesionWeight, +1},
	'w': {CohesionWeight, -1},
	'3': {AlignmentWeight, +1},
	'e': {AlignmentWeight, -1},
}
