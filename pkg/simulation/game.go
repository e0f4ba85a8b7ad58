package simulation

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"
	"golang.org/x/image/font/basicfont"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/ui"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	hudFace    = text.NewGoXFace(basicfont.Face7x13)

	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	cellColor       = color.RGBA{R: 60, G: 90, B: 60, A: 255}
	targetColor     = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

// Game is the ebiten front-end of the flock actor: it sends one tick per
// ebiten update, forwards input as control messages and draws the last frame
// it received.
type Game struct {
	ctx      context.Context
	System   actor.ActorSystem
	flockPID *actor.PID
	frames   chan flock.Frame
	last     flock.Frame
	cfg      *Config

	// UI Controls
	panel          *ui.Panel
	widgetSteppers map[flock.WeightKind]*ui.Stepper
	widgetQuadtree *ui.Checkbox
	widgetSeek     *ui.Checkbox
	lastTarget     geometry.Vector2D
	chars          []rune
	notice         string
	noticeUntil    time.Time
	lastTick       time.Time
	vertices       []ebiten.Vertex
	indices        []uint16

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the flock actor in system and builds the control panel.
func NewGame(ctx context.Context, cfg *Config, system actor.ActorSystem) (*Game, error) {
	frames := make(chan flock.Frame, 10) // Buffer to avoid blocking
	pid, err := system.Spawn(ctx, "flock", NewFlockActor(cfg, ChannelSink(frames)))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}

	g := &Game{
		ctx:            ctx,
		System:         system,
		flockPID:       pid,
		frames:         frames,
		cfg:            cfg,
		widgetSteppers: make(map[flock.WeightKind]*ui.Stepper),
		lastTick:       time.Now(),
	}
	g.last.Weights = cfg.Weights()

	g.panel = ui.NewPanel("Flocking  [Tab] hide", 10, 10, 220)
	g.panel.AddSection("Weights  (1/q 2/w 3/e)")
	for _, k := range []flock.WeightKind{flock.SeparationWeight, flock.CohesionWeight, flock.AlignmentWeight} {
		g.widgetSteppers[k] = g.panel.AddStepper(k.String(), g.last.Weights.Get(k), func(delta int) {
			g.tune(flock.TuningEvent{Weight: k, Delta: delta})
		})
	}
	g.panel.AddSection("Display")
	g.widgetQuadtree = g.panel.AddCheckbox("Show quadtree", cfg.DisplayQuadtree, func(on bool) {
		g.tell(NewOverlay(on))
	})
	g.widgetSeek = g.panel.AddCheckbox("Seek the cursor", false, func(on bool) {
		g.tell(NewTarget(g.lastTarget, on))
	})
	return g, nil
}

func (g *Game) tell(msg proto.Message) {
	if err := actor.Tell(g.ctx, g.flockPID, msg); err != nil {
		g.show(fmt.Sprintf("flock unreachable: %v", err))
	}
}

func (g *Game) tune(ev flock.TuningEvent) {
	g.tell(NewTuning(ev))
}

func (g *Game) show(msg string) {
	g.notice = msg
	g.noticeUntil = time.Now().Add(3 * time.Second)
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		ms := float64(time.Since(start).Microseconds()) / 1000.0
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + ms*0.05
	}()

	g.panel.Update()
	g.handleKeys()
	g.followCursor()

	// Retrieve the latest frame (non-blocking), keep the previous one otherwise
	select {
	case f := <-g.frames:
		g.last = f
		for k, s := range g.widgetSteppers {
			s.SetValue(f.Weights.Get(k))
		}
	default:
	}

	now := time.Now()
	g.tell(NewTick(now.Sub(g.lastTick)))
	g.lastTick = now
	return nil
}

func (g *Game) handleKeys() {
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if ev, ok := flock.TuningKeys[r]; ok {
			g.tune(ev)
			continue
		}
		switch r {
		case 'o':
			g.widgetQuadtree.Value = !g.widgetQuadtree.Value
			g.tell(NewOverlay(g.widgetQuadtree.Value))
		case 'c':
			g.copyStatus()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Hidden = !g.panel.Hidden
	}
}

// followCursor moves the seek target while the cursor is in the arena and
// not over the panel.
func (g *Game) followCursor() {
	if !g.widgetSeek.Value {
		return
	}
	mx, my := ebiten.CursorPosition()
	if g.panel.Contains(mx, my) {
		return
	}
	p := geometry.Vector2D{X: float64(mx), Y: float64(my)}
	if p == g.lastTarget || !g.last.Bounds.Contains(p) {
		return
	}
	g.lastTarget = p
	g.tell(NewTarget(p, true))
}

// copyStatus asks the flock for its status and puts it on the clipboard as JSON.
func (g *Game) copyStatus() {
	resp, err := actor.Ask(g.ctx, g.flockPID, NewStatusRequest(), time.Second)
	if err != nil {
		g.show(fmt.Sprintf("status failed: %v", err))
		return
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		g.show(fmt.Sprintf("status failed: %v", err))
		return
	}
	if err := clipboard.WriteAll(string(b)); err != nil {
		g.show(fmt.Sprintf("clipboard unavailable: %v", err))
		return
	}
	g.show("status copied to the clipboard")
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		ms := float64(time.Since(start).Microseconds()) / 1000.0
		g.drawAvg = g.drawAvg*0.95 + ms*0.05
	}()

	screen.Fill(backgroundColor)

	for _, c := range g.last.Cells {
		vector.StrokeRect(screen,
			float32(c.X), float32(c.Y), float32(c.Width), float32(c.Height),
			1, cellColor, false)
	}

	g.drawBoids(screen)

	if g.widgetSeek.Value && g.last.Weights.HasTarget {
		t := g.last.Weights.Target
		vector.StrokeCircle(screen, float32(t.X), float32(t.Y), 6, 1, targetColor, true)
	}

	g.panel.Draw(screen)
	g.drawHUD(screen)
}

// boidTriangle returns the tip, right and left corners of the triangle
// drawn for a boid at pos heading along vel.
func boidTriangle(pos, vel geometry.Vector2D, scale float64) [3]geometry.Vector2D {
	angle := vel.Angle()
	return [3]geometry.Vector2D{
		pos.Add(geometry.NewVectorPolar(6*scale, angle)),
		pos.Add(geometry.NewVectorPolar(5*scale, angle+2.5)),
		pos.Add(geometry.NewVectorPolar(5*scale, angle-2.5)),
	}
}

// drawBoids batches every boid into DrawTriangles calls of at most
// 65535/3 triangles each, the limit of uint16 indices.
func (g *Game) drawBoids(screen *ebiten.Image) {
	const maxTriangles = math.MaxUint16 / 3
	f := g.last
	op := &ebiten.DrawTrianglesOptions{}
	for first := 0; first < len(f.Positions); first += maxTriangles {
		last := min(first+maxTriangles, len(f.Positions))
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
		for i := first; i < last; i++ {
			scale := max(1, f.Radii[i]/1.5)
			speed := float32(f.Velocities[i].Len() / g.cfg.MaxSpeed)
			for _, p := range boidTriangle(f.Positions[i], f.Velocities[i], scale) {
				g.vertices = append(g.vertices, ebiten.Vertex{
					DstX: float32(p.X), DstY: float32(p.Y),
					SrcX: 1, SrcY: 1,
					ColorR: 0.4 + 0.6*speed, ColorG: 0.8, ColorB: 1, ColorA: 1,
				})
			}
			base := uint16(3 * (i - first))
			g.indices = append(g.indices, base, base+1, base+2)
		}
		screen.DrawTriangles(g.vertices, g.indices, whiteImage, op)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.last.Weights
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nFrame: %d  Boids: %d\nUpdate: %.2fms  Draw: %.2fms\nsep %.3f  coh %.3f  ali %.3f\n[o] quadtree  [c] copy status",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.last.Number, len(g.last.Positions),
		g.updateAvg, g.drawAvg,
		w.Separation, w.Cohesion, w.Alignment)
	if time.Now().Before(g.noticeUntil) {
		msg += "\n" + g.notice
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(screen.Bounds().Dx())-260, 10)
	op.ColorScale.ScaleWithColor(color.White)
	op.LineSpacing = 16
	text.Draw(screen, msg, hudFace, op)
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
