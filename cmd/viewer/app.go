// Command viewer shows the animated Fox and lets the keyboard drive its animation player.
//
// Native builds open a GLFW window and read assets from ./assets. The js/wasm build draws into
// the page's canvas and fetches assets relative to the page; the page starts it by calling the
// global run function.
package main

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset/gltf"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/Carmen-Shannon/oxy-viewer/viewer"
)

const title = "Oxy Viewer - Animated Fox"

// newApp wires the window, the renderer and an asset server with the glTF loader into an app
// running the scene and viewer plugins.
func newApp(win window.Window, r renderer.Renderer, assetOptions ...asset.ServerBuilderOption) app.App {
	gl := gltf.NewLoader()
	options := append([]asset.ServerBuilderOption{
		asset.WithLoader(".glb", gl),
		asset.WithLoader(".gltf", gl),
	}, assetOptions...)

	return app.NewApp(
		app.WithProfiling(true),
		app.WithTickRate(60),
		app.WithWindow(win),
		app.WithRenderer(r),
		app.WithAssetServer(asset.NewServer(options...)),
	).
		AddPlugin(scene.Plugin{}).
		AddPlugin(viewer.Plugin{})
}
