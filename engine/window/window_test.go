package window

import "testing"

func TestKeyDownSkipsRepeats(t *testing.T) {
	w := &engineWindow{}
	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	w.keyDown(32, false)
	w.keyDown(32, true)
	w.keyDown(32, true)
	w.keyUp(32)

	if len(down) != 1 || down[0] != 32 {
		t.Errorf("down = %v, want [32]", down)
	}
	if len(up) != 1 {
		t.Errorf("up = %v, want [32]", up)
	}
}

func TestResizedIgnoresZeroSize(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	var calls [][2]int
	w.SetResizeCallback(func(width, height int) { calls = append(calls, [2]int{width, height}) })

	w.resized(0, 0)
	w.resized(800, 600)

	if w.Width() != 800 || w.Height() != 600 {
		t.Errorf("size = %dx%d", w.Width(), w.Height())
	}
	if len(calls) != 1 || calls[0] != [2]int{800, 600} {
		t.Errorf("resize calls = %v", calls)
	}
}

func TestClosedWindowIsNotRunning(t *testing.T) {
	w := &engineWindow{}
	if w.IsRunning() {
		t.Error("unopened window reports running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("unopened window has a surface descriptor")
	}
	if err := w.Close(); err == nil {
		t.Error("closing an unopened window should fail")
	}
}
