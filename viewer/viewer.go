// Package viewer assembles the Fox scene and maps keyboard input onto its animation player.
//
// Register Plugin after scene.Plugin. Startup spawns the scene and fills the Animations
// registry; each Update first binds the default clip on new players and then applies the
// keyboard controls:
//
//	Space        pause / resume
//	Up / Down    speed x1.2 / x0.8
//	Left / Right seek -0.1s / +0.1s
//	Enter        crossfade to the next registered clip, looped
//	1 / 3 / 5    play the current clip 1, 3 or 5 times from the start
//	L            loop the current clip forever
package viewer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/ecs/generic"
)

// Plugin registers the viewer systems. A nil Config uses DefaultConfig.
type Plugin struct {
	Config *Config
}

var _ app.Plugin = Plugin{}

// Build panics if Config is nil and the embedded config is invalid.
func (p Plugin) Build(a app.App) {
	cfg := p.Config
	if cfg == nil {
		var err error
		if cfg, err = DefaultConfig(); err != nil {
			panic(fmt.Sprintf("failed to load embedded viewer config: %v", err))
		}
	}

	v := newSystems(cfg, a.World())
	a.AddSystem(app.Startup, v.setup)
	a.AddSystem(app.Update, v.bindPlayback)
	a.AddSystem(app.Update, v.controlAnimations)
}

type systems struct {
	cfg *Config

	unbound *generic.Filter1[animation.Player]
	players *generic.Filter1[animation.Player]
	bound   generic.Map1[PlaybackBound]

	// cursors holds the Enter cursor of every player entity.
	cursors map[ecs.Entity]int
	logged  map[string]bool
}

func newSystems(cfg *Config, w *ecs.World) *systems {
	return &systems{
		cfg:     cfg,
		unbound: generic.NewFilter1[animation.Player]().Without(generic.T[PlaybackBound]()),
		players: generic.NewFilter1[animation.Player](),
		bound:   generic.NewMap1[PlaybackBound](w),
		cursors: make(map[ecs.Entity]int),
		logged:  make(map[string]bool),
	}
}
