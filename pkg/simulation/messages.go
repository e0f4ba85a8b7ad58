package simulation

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

// The flock actor speaks protobuf well-known types only:
//
//	*durationpb.Duration  tick, the time elapsed since the previous one
//	*structpb.Struct      control message, see the kind* constants
//	*emptypb.Empty        status request, answered with a *structpb.Struct

const (
	fieldKind = "kind"

	kindTune    = "tune"
	kindTarget  = "target"
	kindOverlay = "overlay"
)

// NewTick builds a tick message.
func NewTick(elapsed time.Duration) *durationpb.Duration {
	return durationpb.New(elapsed)
}

// NewStatusRequest builds the message answered by the flock actor status.
func NewStatusRequest() *emptypb.Empty {
	return &emptypb.Empty{}
}

// NewTuning builds the control message moving one weight by ev.Delta steps.
func NewTuning(ev flock.TuningEvent) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKind: structpb.NewStringValue(kindTune),
		"weight":  structpb.NewStringValue(ev.Weight.String()),
		"delta":   structpb.NewNumberValue(float64(ev.Delta)),
	}}
}

// NewTarget builds the control message setting the seek target.
// active false clears it.
func NewTarget(p geometry.Vector2D, active bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKind: structpb.NewStringValue(kindTarget),
		"x":       structpb.NewNumberValue(p.X),
		"y":       structpb.NewNumberValue(p.Y),
		"active":  structpb.NewBoolValue(active),
	}}
}

// NewOverlay builds the control message asking for quadtree cells in the frames.
func NewOverlay(enabled bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKind: structpb.NewStringValue(kindOverlay),
		"enabled": structpb.NewBoolValue(enabled),
	}}
}

// control is a decoded control message.
type control struct {
	kind    string
	tuning  flock.TuningEvent
	target  geometry.Vector2D
	enabled bool
}

func decodeControl(s *structpb.Struct) (control, error) {
	f := s.GetFields()
	c := control{kind: f[fieldKind].GetStringValue()}
	switch c.kind {
	case kindTune:
		k, err := flock.ParseWeightKind(f["weight"].GetStringValue())
		if err != nil {
			return c, err
		}
		c.tuning = flock.TuningEvent{Weight: k, Delta: int(f["delta"].GetNumberValue())}
	case kindTarget:
		c.target = geometry.Vector2D{X: f["x"].GetNumberValue(), Y: f["y"].GetNumberValue()}
		c.enabled = f["active"].GetBoolValue()
	case kindOverlay:
		c.enabled = f["enabled"].GetBoolValue()
	default:
		return c, fmt.Errorf("unknown control message kind %q", c.kind)
	}
	return c, nil
}
