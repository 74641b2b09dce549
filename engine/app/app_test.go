package app

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/mlange-42/arche/ecs"
)

type counter struct {
	n int
}

type recordingRenderer struct {
	extracted int
}

func (r *recordingRenderer) Extract(*ecs.World) { r.extracted++ }
func (r *recordingRenderer) Render() error { return nil }
func (r *recordingRenderer) Resize(int, int) {}

type fakeWindow struct {
	keyDown func(uint32)
	keyUp   func(uint32)
}

func (w *fakeWindow) SetKeyDownCallback(cb func(uint32)) { w.keyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(uint32)) { w.keyUp = cb }
func (w *fakeWindow) SetResizeCallback(func(width, height int)) {}
func (w *fakeWindow) ProcessMessages() {}
func (w *fakeWindow) Width() int { return 1280 }
func (w *fakeWindow) Height() int { return 720 }
func (w *fakeWindow) Close() error { return nil }

func TestStepRunsStartupOnceBeforeUpdate(t *testing.T) {
	a := NewApp()
	var order []string
	a.AddSystem(Update, func(*ecs.World) { order = append(order, "update") })
	a.AddSystem(Startup, func(*ecs.World) { order = append(order, "startup") })
	a.AddSystem(PostUpdate, func(*ecs.World) { order = append(order, "post") })

	a.Step(0.1)
	a.Step(0.1)

	want := []string{"startup", "update", "post", "update", "post"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestStepUpdatesTime(t *testing.T) {
	a := NewApp()
	a.Step(0.25)
	a.Step(0.5)

	tm, ok := Resource[Time](a.World())
	if !ok {
		t.Fatal("time resource missing")
	}
	if tm.Delta != 0.5 || tm.Elapsed != 0.75 || tm.Tick != 2 {
		t.Errorf("time = %+v", *tm)
	}
}

func TestResourceHelpers(t *testing.T) {
	a := NewApp()
	if _, ok := Resource[counter](a.World()); ok {
		t.Fatal("unexpected counter resource")
	}
	InsertResource(a.World(), &counter{n: 1})
	InsertResource(a.World(), &counter{n: 2})
	c, ok := Resource[counter](a.World())
	if !ok || c.n != 2 {
		t.Errorf("counter = %+v, %v", c, ok)
	}
	if _, ok := Resource[Assets](a.World()); !ok {
		t.Error("assets resource missing")
	}
}

func TestWindowKeysReachSystems(t *testing.T) {
	w := &fakeWindow{}
	a := NewApp(WithWindow(w))

	var edges int
	a.AddSystem(Update, func(world *ecs.World) {
		in, _ := Resource[Input](world)
		if in.Keyboard.JustPressed(common.KeySpace) {
			edges++
		}
	})

	w.keyDown(common.KeySpace)
	a.Step(0.016)
	w.keyDown(common.KeySpace) // auto-repeat
	a.Step(0.016)
	w.keyUp(common.KeySpace)
	a.Step(0.016)

	if edges != 1 {
		t.Errorf("press edges = %d, want 1", edges)
	}
}

func TestStepExtractsForRenderer(t *testing.T) {
	r := &recordingRenderer{}
	a := NewApp(WithRenderer(r))
	a.Step(0.1)
	a.Step(0.1)
	if r.extracted != 2 {
		t.Errorf("extracted = %d, want 2", r.extracted)
	}
}

type countingPlugin struct{ built int }

func (p *countingPlugin) Build(a App) {
	p.built++
	a.AddSystem(Startup, func(w *ecs.World) { InsertResource(w, &counter{n: 7}) })
}

func TestAddPlugin(t *testing.T) {
	p := &countingPlugin{}
	a := NewApp().AddPlugin(p)
	a.Step(0)
	if p.built != 1 {
		t.Errorf("built = %d", p.built)
	}
	if c, ok := Resource[counter](a.World()); !ok || c.n != 7 {
		t.Error("plugin startup system did not run")
	}
}

func TestRunHeadlessStopsOnQuit(t *testing.T) {
	a := NewApp(WithTickRate(200))
	ticks := make(chan struct{}, 1)
	a.AddSystem(Update, func(*ecs.World) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		a.Run()
		close(done)
	}()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}
	a.Quit()
	a.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestFrameIntervalKeepsFractionalRates(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{60, 16666666 * time.Nanosecond},
		{59.94, 16683350 * time.Nanosecond},
		{0.5, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := frameInterval(tt.fps); got != tt.want {
			t.Errorf("frameInterval(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}

	a := NewApp(WithTickRate(59.94)).(*app)
	if a.tickRate != frameInterval(59.94) {
		t.Errorf("tick rate = %v, want %v", a.tickRate, frameInterval(59.94))
	}
}

func TestQuitClearsRunning(t *testing.T) {
	a := NewApp(WithTickRate(200)).(*app)
	done := make(chan struct{})
	go func() {
		a.Run()
		close(done)
	}()

	// Quit from another goroutine, as the render goroutine does after a recovered panic
	go a.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	if a.running.Load() {
		t.Error("app still marked running after Quit")
	}

	// once stopped, SetTickRate applies directly instead of signalling the tick loop
	a.SetTickRate(30)
	if a.tickRate != frameInterval(30) {
		t.Errorf("tick rate = %v, want %v", a.tickRate, frameInterval(30))
	}
}
