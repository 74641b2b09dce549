//go:build !js

package main

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

func main() {
	win := window.NewWindow(
		window.WithTitle(title),
		window.WithSize(1280, 720),
	)
	r := renderer.NewRenderer(win, renderer.WithPresentMode(renderer.PresentModeVSync))

	newApp(win, r, asset.WithRoot("assets")).Run()
}
