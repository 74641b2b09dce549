package viewer

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/mlange-42/arche/ecs"
)

// ErrNoAnimations is returned by Control when Enter is pressed with an empty registry.
var ErrNoAnimations = errors.New("no animations registered")

// KeyState is the part of the keyboard the controller reads.
type KeyState interface {
	JustPressed(key uint32) bool
}

// PlaybackControls is the part of an animation player the controller drives.
// *animation.Player implements it.
type PlaybackControls interface {
	IsPaused() bool
	Pause()
	Resume()
	Speed() float32
	SetSpeed(s float32) *animation.Player
	SeekTime() float32
	SeekTo(t float32) *animation.Player
	PlayWithTransition(h asset.Handle, d time.Duration) *animation.Player
	SetRepeat(r animation.RepeatAnimation) *animation.Player
	Replay() *animation.Player
}

var _ PlaybackControls = &animation.Player{}

// repeatKeys maps the digit keys to their finite repeat counts.
var repeatKeys = []struct {
	key   uint32
	count uint32
}{
	{common.Key1, 1},
	{common.Key3, 3},
	{common.Key5, 5},
}

// Control applies one tick of key presses to a player. Every key is checked independently, so
// several presses in the same tick all take effect, in the order of the key table.
// Speed and seek time are never clamped.
//
// Parameters:
//   - keys: the latched keyboard state
//   - p: the player to drive
//   - registry: the clips Enter cycles through
//   - cursor: the registry index of the clip last chosen with Enter, updated in place
//   - c: the step sizes
//
// Returns:
//   - error: ErrNoAnimations if Enter was pressed with an empty registry, nil otherwise
func Control(keys KeyState, p PlaybackControls, registry *Animations, cursor *int, c ControlsConfig) error {
	var err error

	if keys.JustPressed(common.KeySpace) {
		if p.IsPaused() {
			p.Resume()
		} else {
			p.Pause()
		}
	}

	if keys.JustPressed(common.KeyUp) {
		p.SetSpeed(p.Speed() * c.SpeedUp)
	}
	if keys.JustPressed(common.KeyDown) {
		p.SetSpeed(p.Speed() * c.SpeedDown)
	}

	if keys.JustPressed(common.KeyLeft) {
		p.SeekTo(p.SeekTime() - c.SeekStep)
	}
	if keys.JustPressed(common.KeyRight) {
		p.SeekTo(p.SeekTime() + c.SeekStep)
	}

	if keys.JustPressed(common.KeyEnter) {
		if registry == nil || registry.Len() == 0 {
			err = ErrNoAnimations
		} else {
			*cursor = (*cursor + 1) % registry.Len()
			p.PlayWithTransition(registry.At(*cursor).Weak(), c.Transition).Repeat()
		}
	}

	for _, rk := range repeatKeys {
		if keys.JustPressed(rk.key) {
			p.SetRepeat(animation.Count(rk.count))
			p.Replay()
		}
	}

	if keys.JustPressed(common.KeyL) {
		p.SetRepeat(animation.Forever())
	}
	return err
}

// controlAnimations runs Control for every player, each with its own clip cursor.
func (v *systems) controlAnimations(w *ecs.World) {
	input, ok := app.Resource[app.Input](w)
	if !ok {
		return
	}
	v.pruneCursors(w)
	registry, _ := app.Resource[Animations](w)

	query := v.players.Query(w)
	for query.Next() {
		e := query.Entity()
		cursor := v.cursors[e]
		if err := Control(input.Keyboard, query.Get(), registry, &cursor, v.cfg.Controls); err != nil {
			v.logOnce("enter", "[Viewer] cannot switch clips: %v", err)
		}
		v.cursors[e] = cursor
	}
}

// pruneCursors drops the cursors of despawned entities and of entities that lost their player,
// so a new player always starts at 0.
func (v *systems) pruneCursors(w *ecs.World) {
	playerID := ecs.ComponentID[animation.Player](w)
	for e := range v.cursors {
		if !w.Alive(e) || !w.Has(e, playerID) {
			delete(v.cursors, e)
		}
	}
}
