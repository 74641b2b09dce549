//go:build js && wasm

package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

func main() {
	var once sync.Once
	run := js.FuncOf(func(js.Value, []js.Value) any {
		once.Do(func() {
			// a js callback must return before the app can block
			go start()
		})
		return nil
	})
	js.Global().Set("run", run)
	select {}
}

func start() {
	win := window.NewWindow(window.WithTitle(title), window.WithCanvas("canvas"))
	r := renderer.NewRenderer(win)
	newApp(win, r, asset.WithReader(fetchAsset)).Run()
	log.Printf("[Viewer] stopped")
}

// fetchAsset downloads an asset from the assets directory next to the page.
func fetchAsset(path string) ([]byte, error) {
	base, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse page location: %w", err)
	}
	ref, err := url.Parse("assets/" + path)
	if err != nil {
		return nil, fmt.Errorf("invalid asset path %q: %w", path, err)
	}

	resp, err := http.Get(base.ResolveReference(ref).String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
