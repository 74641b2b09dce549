//go:build js && wasm

package window

import (
	"fmt"
	"syscall/js"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// canvasWindow holds the browser canvas and the registered DOM listeners.
type canvasWindow struct {
	canvas    js.Value
	listeners []domListener
	running   bool
}

type domListener struct {
	target js.Value
	event  string
	fn     js.Func
}

// newPlatformWindow binds to the first element matching the canvas selector and listens for
// keyboard events on the document and resize events on the browser window.
func newPlatformWindow(w *engineWindow) error {
	doc := js.Global().Get("document")
	canvas := doc.Call("querySelector", w.canvasSelector)
	if canvas.IsNull() || canvas.IsUndefined() {
		return fmt.Errorf("no element matches %q", w.canvasSelector)
	}
	doc.Set("title", w.title)

	cw := &canvasWindow{canvas: canvas, running: true}
	w.internalWindow = cw

	cw.listen(doc, "keydown", func(e js.Value) {
		code, ok := common.KeyFromCode(e.Get("code").String())
		if !ok {
			return
		}
		// keep arrow keys and space from scrolling the page
		e.Call("preventDefault")
		w.keyDown(code, e.Get("repeat").Bool())
	})
	cw.listen(doc, "keyup", func(e js.Value) {
		if code, ok := common.KeyFromCode(e.Get("code").String()); ok {
			w.keyUp(code)
		}
	})
	cw.listen(js.Global(), "resize", func(js.Value) {
		cw.fit(w)
	})
	cw.fit(w)
	return nil
}

func (cw *canvasWindow) listen(target js.Value, event string, handler func(e js.Value)) {
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			handler(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, fn)
	cw.listeners = append(cw.listeners, domListener{target: target, event: event, fn: fn})
}

// fit sizes the canvas backing store to its CSS size times the device pixel ratio.
func (cw *canvasWindow) fit(w *engineWindow) {
	ratio := js.Global().Get("devicePixelRatio").Float()
	if ratio <= 0 {
		ratio = 1
	}
	width := int(cw.canvas.Get("clientWidth").Float() * ratio)
	height := int(cw.canvas.Get("clientHeight").Float() * ratio)
	if width == 0 || height == 0 {
		width, height = w.width, w.height
	}
	width = min(max(width, w.minWidth), w.maxWidth)
	height = min(max(height, w.minHeight), w.maxHeight)
	cw.canvas.Set("width", width)
	cw.canvas.Set("height", height)
	w.resized(width, height)
}

// platformGetSurfaceDescriptor returns an empty descriptor; the browser backend of wgpu binds
// the surface to the page canvas itself.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	return &wgpu.SurfaceDescriptor{}
}

func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	return w.internalWindow.(*canvasWindow).running
}

func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	cw := w.internalWindow.(*canvasWindow)
	cw.running = false
	for _, l := range cw.listeners {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	cw.listeners = nil
	w.internalWindow = nil
	return nil
}

// platformProcessMessages yields to the browser event loop, which delivers the DOM events.
func platformProcessMessages(w *engineWindow) bool {
	time.Sleep(time.Second / 120)
	return platformIsRunningCheck(w)
}
