package viewer

import (
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/mlange-42/arche/ecs"
)

// PlaybackBound tags a player that already received the default clip.
type PlaybackBound struct{}

// bindPlayback starts the default clip, looped, on every player that has not been bound yet.
// Players wait until every registered clip has loaded.
func (v *systems) bindPlayback(w *ecs.World) {
	registry, ok := app.Resource[Animations](w)
	if !ok {
		return
	}
	assets, ok := app.Resource[app.Assets](w)
	if !ok {
		return
	}
	def := v.cfg.DefaultAnimation
	if def < 0 || def >= registry.Len() {
		v.logOnce("no-default", "[Viewer] default animation %d is not registered, players stay unbound", def)
		return
	}

	switch registry.State(assets.Server) {
	case asset.LoadStateLoaded:
	case asset.LoadStateFailed:
		v.logOnce("failed", "[Viewer] animations failed to load, players stay unbound")
		return
	default:
		return
	}

	var bound []ecs.Entity
	query := v.unbound.Query(w)
	for query.Next() {
		player := query.Get()
		player.Play(registry.At(def).Weak()).Repeat()
		bound = append(bound, query.Entity())
	}

	// the world is locked while a query is open
	for _, e := range bound {
		v.bound.Assign(e, &PlaybackBound{})
	}
}

func (v *systems) logOnce(key, format string, args ...any) {
	if v.logged[key] {
		return
	}
	v.logged[key] = true
	log.Printf(format, args...)
}
