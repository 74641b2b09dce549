package scene

import (
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/ecs/generic"
)

// Plugin spawns scene instances for loaded SceneRoot assets and drives their animation
// players. Both systems run in PostUpdate, after user systems have mutated the players.
type Plugin struct{}

var _ app.Plugin = Plugin{}

func (Plugin) Build(a app.App) {
	s := &systems{
		unspawned: generic.NewFilter1[SceneRoot]().Without(generic.T[SceneInstance]()),
		animated:  generic.NewFilter2[SceneInstance, animation.Player](),
		instances: generic.NewMap1[SceneInstance](a.World()),
		players:   generic.NewMap1[animation.Player](a.World()),
		failed:    make(map[uint64]bool),
	}
	a.AddSystem(app.PostUpdate, s.spawnScenes)
	a.AddSystem(app.PostUpdate, s.advanceAnimations)
}

type systems struct {
	unspawned *generic.Filter1[SceneRoot]
	animated  *generic.Filter2[SceneInstance, animation.Player]
	instances generic.Map1[SceneInstance]
	players   generic.Map1[animation.Player]
	failed    map[uint64]bool
}

type spawn struct {
	entity   ecs.Entity
	instance *SceneInstance
}

// spawnScenes attaches a SceneInstance to every SceneRoot whose asset finished loading, and an
// animation.Player when the scene is skinned.
func (s *systems) spawnScenes(w *ecs.World) {
	assets, ok := app.Resource[app.Assets](w)
	if !ok {
		return
	}

	var ready []spawn
	query := s.unspawned.Query(w)
	for query.Next() {
		root := query.Get()
		switch assets.Server.State(root.Handle) {
		case asset.LoadStateLoaded:
			sa, ok := asset.Get[*SceneAsset](assets.Server, root.Handle)
			if !ok {
				s.logOnce(root.Handle, "[Scene] asset %s is not a scene", root.Handle)
				continue
			}
			ready = append(ready, spawn{entity: query.Entity(), instance: NewSceneInstance(sa)})
		case asset.LoadStateFailed:
			s.logOnce(root.Handle, "[Scene] cannot spawn %s: %v", root.Handle, assets.Server.Err(root.Handle))
		}
	}

	// the world is locked while a query is open
	for _, r := range ready {
		s.instances.Assign(r.entity, r.instance)
		if r.instance.Asset.Animated() && !w.Has(r.entity, ecs.ComponentID[animation.Player](w)) {
			s.players.Assign(r.entity, animation.NewPlayer())
		}
	}
}

// advanceAnimations ticks every player, evaluates its pose and refreshes the skinning matrices.
func (s *systems) advanceAnimations(w *ecs.World) {
	tm, ok := app.Resource[app.Time](w)
	if !ok {
		return
	}
	assets, ok := app.Resource[app.Assets](w)
	if !ok {
		return
	}
	clips := func(h asset.Handle) (*animation.Clip, bool) {
		return asset.Get[*animation.Clip](assets.Server, h)
	}

	query := s.animated.Query(w)
	for query.Next() {
		inst, player := query.Get()
		player.Advance(tm.Delta, clips)
		inst.Pose.CopyFrom(inst.Rest)
		player.Evaluate(inst.Pose, clips)
		inst.Refresh()
	}
}

func (s *systems) logOnce(h asset.Handle, format string, args ...any) {
	if s.failed[h.ID()] {
		return
	}
	s.failed[h.ID()] = true
	log.Printf(format, args...)
}
