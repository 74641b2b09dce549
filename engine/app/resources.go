package app

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/input"
	"github.com/mlange-42/arche/ecs"
)

// Time is the clock resource, updated at the start of every tick.
type Time struct {
	// Delta is the duration of the current tick in seconds.
	Delta float32
	// Elapsed is the total simulated time in seconds.
	Elapsed float64
	// Tick counts completed ticks.
	Tick uint64
}

// Input is the keyboard resource.
type Input struct {
	Keyboard input.Keyboard
}

// Assets is the asset server resource.
type Assets struct {
	Server asset.Server
}

// Resource returns the world resource of type T.
//
// Parameters:
//   - w: the world
//
// Returns:
//   - *T: the resource, or nil
//   - bool: true if the resource exists
func Resource[T any](w *ecs.World) (*T, bool) {
	id := ecs.ResourceID[T](w)
	if !w.Resources().Has(id) {
		return nil, false
	}
	return ecs.GetResource[T](w), true
}

// InsertResource adds res to the world, replacing any resource of the same type.
//
// Parameters:
//   - w: the world
//   - res: the resource
func InsertResource[T any](w *ecs.World, res *T) {
	id := ecs.ResourceID[T](w)
	if w.Resources().Has(id) {
		w.Resources().Remove(id)
	}
	ecs.AddResource(w, res)
}
