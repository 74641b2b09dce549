package viewer

import "github.com/Carmen-Shannon/oxy-viewer/engine/asset"

// Animations is the world resource listing the clips the viewer can switch between, in a
// fixed order. It is written once at startup and only read afterwards.
type Animations struct {
	handles []asset.Handle
}

// NewAnimations creates a registry holding a copy of handles.
//
// Parameters:
//   - handles: the clip handles in registry order
//
// Returns:
//   - Animations: the registry
func NewAnimations(handles ...asset.Handle) Animations {
	return Animations{handles: append([]asset.Handle(nil), handles...)}
}

// Len returns the number of registered clips.
func (a *Animations) Len() int {
	return len(a.handles)
}

// At returns the clip handle at index i.
func (a *Animations) At(i int) asset.Handle {
	return a.handles[i]
}

// State folds the load states of every clip: Failed if any failed, Loaded once all loaded,
// Loading otherwise. An empty registry is Loaded.
//
// Parameters:
//   - s: the asset server the clips were requested from
//
// Returns:
//   - asset.LoadState: the combined state
func (a *Animations) State(s asset.Server) asset.LoadState {
	state := asset.LoadStateLoaded
	for _, h := range a.handles {
		switch s.State(h) {
		case asset.LoadStateFailed:
			return asset.LoadStateFailed
		case asset.LoadStateLoaded:
		default:
			state = asset.LoadStateLoading
		}
	}
	return state
}
