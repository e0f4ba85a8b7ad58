package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
)

// App runs a simulation in the terminal: one Update and one frame per tick,
// key presses handled between ticks on the same goroutine.
type App struct {
	screen   tcell.Screen
	sim      *flock.Simulation
	renderer *Renderer
	logger   golog.Logger

	weights flock.Weights
	step    float64
	overlay bool
	paused  bool
}

func NewApp(screen tcell.Screen, sim *flock.Simulation, w flock.Weights, step float64, logger golog.Logger) *App {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	return &App{
		screen:   screen,
		sim:      sim,
		renderer: NewRenderer(screen),
		logger:   logger,
		weights:  w,
		step:     step,
	}
}

func (a *App) Weights() flock.Weights { return a.weights }

func (a *App) SetOverlay(on bool) { a.overlay = on }

// Handle applies one event and reports whether the app keeps running.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		action, tune := KeyAction(ev)
		switch action {
		case ActionQuit:
			return false
		case ActionTune:
			a.weights.Apply(tune, a.step)
			a.logger.Debugf("tuning %s: %s", tune, a.weights)
		case ActionOverlay:
			a.overlay = !a.overlay
		case ActionPause:
			a.paused = !a.paused
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// Step advances the flock unless paused and draws it.
func (a *App) Step() {
	if !a.paused {
		a.sim.Update(a.weights)
	}
	a.sim.Present(a.renderer, a.weights, a.overlay)
}

// Run steps the app every tick until ctx is done or a quit key is pressed.
// The caller owns the screen and calls Fini after Run returns.
func (a *App) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			if !a.Handle(ev) {
				a.logger.Infof("quit after %d frames", a.sim.FrameNumber())
				return nil
			}

		case <-ticker.C:
			a.Step()
			if time.Since(lastLog) >= time.Second {
				a.logger.Infof("frame %d, %d drawn, %s", a.sim.FrameNumber(), a.renderer.Frames(), a.weights)
				lastLog = time.Now()
			}
		}
	}
}
