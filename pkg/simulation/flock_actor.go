package simulation

import (
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/telemetry"
)

// ChannelSink presents frames on a channel without ever blocking:
// when the receiver is busy the frame is dropped.
type ChannelSink chan flock.Frame

func (c ChannelSink) Present(f flock.Frame) {
	select {
	case c <- f:
	default:
		// UI busy, skip frame
	}
}

// FlockActor owns the authoritative flock. Its mailbox serialises ticks and
// control messages, so the simulation is only ever touched by one goroutine.
type FlockActor struct {
	cfg     *Config
	sim     *flock.Simulation
	sink    flock.Sink
	weights flock.Weights
	step    float64
	overlay bool

	// --- Benchmark Stats ---
	ticks       int
	lastUpdate  time.Duration
	simTime     time.Duration
	lastLogTime time.Time
}

// NewFlockActor creates the flock logic unit. Frames go to sink after every tick.
func NewFlockActor(cfg *Config, sink flock.Sink) *FlockActor {
	return &FlockActor{
		cfg:         cfg,
		sink:        sink,
		weights:     cfg.Weights(),
		step:        cfg.TuningStep,
		overlay:     cfg.DisplayQuadtree,
		lastLogTime: time.Now(),
	}
}

func (f *FlockActor) PreStart(ctx *actor.Context) error {
	p, err := f.cfg.Params()
	if err != nil {
		return fmt.Errorf("flock actor: %w", err)
	}
	sim, err := flock.New(p)
	if err != nil {
		return fmt.Errorf("flock actor: %w", err)
	}
	f.sim = sim
	ctx.ActorSystem().Logger().Infof("Flock of %d boids spawned in %s", sim.Len(), p.Bounds)
	return nil
}

func (f *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("Flock started: %s, boundary=%s", f.weights, f.sim.Params().Boundary)

	case *durationpb.Duration:
		f.tick(ctx, msg.AsDuration())

	case *structpb.Struct:
		f.control(ctx, msg)

	case *emptypb.Empty:
		status, err := f.status()
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(status)

	default:
		ctx.Unhandled()
	}
}

func (f *FlockActor) tick(ctx *actor.ReceiveContext, elapsed time.Duration) {
	start := time.Now()
	f.sim.Update(f.weights)
	f.lastUpdate = time.Since(start)
	f.simTime += elapsed
	f.ticks++

	f.logBenchmarks(ctx)
	f.sim.Present(f.sink, f.weights, f.overlay)
}

func (f *FlockActor) control(ctx *actor.ReceiveContext, msg *structpb.Struct) {
	c, err := decodeControl(msg)
	if err != nil {
		ctx.Logger().Warnf("ignoring control message: %v", err)
		return
	}
	switch c.kind {
	case kindTune:
		f.weights.Apply(c.tuning, f.step)
		ctx.Logger().Debugf("tuning %s: %s", c.tuning, f.weights)
	case kindTarget:
		f.weights.Target = c.target
		f.weights.HasTarget = c.enabled
	case kindOverlay:
		f.overlay = c.enabled
	}
}

func (f *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(f.lastLogTime) >= time.Second {
		stats := telemetry.Collect(f.sim, f.lastUpdate)
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | %s", f.ticks, stats)
		f.ticks = 0
		f.lastLogTime = time.Now()
	}
}

// status describes the running flock; it is also what the windowed app copies
// to the clipboard.
func (f *FlockActor) status() (*structpb.Struct, error) {
	stats := telemetry.Collect(f.sim, f.lastUpdate)
	return structpb.NewStruct(map[string]interface{}{
		"frame":        stats.Frame,
		"boids":        stats.Boids,
		"boundary":     f.sim.Params().Boundary.String(),
		"overlay":      f.overlay,
		"simSeconds":   f.simTime.Seconds(),
		"separation":   f.weights.Separation,
		"cohesion":     f.weights.Cohesion,
		"alignment":    f.weights.Alignment,
		"seek":         f.weights.Seek,
		"speedMean":    stats.SpeedMean,
		"polarization": stats.Polarization,
		"neighbors":    stats.NeighborsMean,
		"treeNodes":    stats.TreeNodes,
		"treeDepth":    stats.TreeDepth,
		"updateMs":     stats.UpdateMillis,
	})
}

func (f *FlockActor) PostStop(ctx *actor.Context) error {
	if f.sim != nil {
		ctx.ActorSystem().Logger().Infof("Flock stopped after %d frames", f.sim.FrameNumber())
	}
	return nil
}
