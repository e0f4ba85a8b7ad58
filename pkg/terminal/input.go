package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
)

// Action is what a key press asks the terminal app to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTune
	ActionOverlay
	ActionPause
)

// KeyAction translates a key event. The tuning event is only meaningful for
// ActionTune.
func KeyAction(ev *tcell.EventKey) (Action, flock.TuningEvent) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, flock.TuningEvent{}
	case tcell.KeyRune:
	default:
		return ActionNone, flock.TuningEvent{}
	}

	r := ev.Rune()
	if tune, ok := flock.TuningKeys[r]; ok {
		return ActionTune, tune
	}
	switch r {
	case 'o':
		return ActionOverlay, flock.TuningEvent{}
	case 'p', ' ':
		return ActionPause, flock.TuningEvent{}
	}
	return ActionNone, flock.TuningEvent{}
}
