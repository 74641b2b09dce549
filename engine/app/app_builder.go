package app

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
)

// AppBuilderOption is a functional option for configuring an App.
// Use the With* functions to create options that are applied directly to the app instance.
type AppBuilderOption func(*app)

// WithProfiling enables or disables the once-per-second frame and tick rate log.
//
// Parameters:
//   - enabled: if true, enables diagnostics logging
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiling(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.profilingEnabled = enabled
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithTickRate(fps float64) AppBuilderOption {
	return func(a *app) {
		if fps <= 0 {
			fps = 60
		}
		a.tickRate = frameInterval(fps)
	}
}

// WithWindow sets the window whose key events feed the keyboard and whose message loop
// Run pumps.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithWindow(w Window) AppBuilderOption {
	return func(a *app) {
		a.window = w
	}
}

// WithRenderer sets the renderer driven by the render goroutine.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderer(r Renderer) AppBuilderOption {
	return func(a *app) {
		a.renderer = r
	}
}

// WithAssetServer replaces the default asset server.
//
// Parameters:
//   - s: the asset server
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithAssetServer(s asset.Server) AppBuilderOption {
	return func(a *app) {
		a.assets = s
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) AppBuilderOption {
	return func(a *app) {
		if fps <= 0 {
			a.renderFrameLimit = 0
			return
		}
		a.renderFrameLimit = frameInterval(fps)
	}
}

// frameInterval converts a positive rate per second into a period, keeping fractional rates
// such as 59.94.
func frameInterval(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / fps)
}
