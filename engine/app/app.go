// Package app runs systems over an ECS world on a fixed tick and hands snapshots to a renderer.
package app

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/input"
	"github.com/mlange-42/arche/ecs"
)

// Schedule selects when a system runs.
type Schedule int

const (
	// Startup systems run once, before the first Update.
	Startup Schedule = iota
	// Update systems run every tick.
	Update
	// PostUpdate systems run every tick after Update. Engine plugins register here.
	PostUpdate
)

// System is a function run against the world once per schedule pass.
type System func(w *ecs.World)

// Plugin bundles resources and systems that are installed together.
type Plugin interface {
	Build(a App)
}

// Window is the platform window the app pumps events from.
type Window interface {
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetResizeCallback(callback func(width, height int))
	ProcessMessages()
	Width() int
	Height() int
	Close() error
}

// Renderer draws the world. Extract runs on the tick goroutine after all systems and must
// copy what it needs; Render runs on the render goroutine and must only touch that copy.
type Renderer interface {
	Extract(w *ecs.World)
	Render() error
	Resize(width, height int)
}

// app implements the App interface.
type app struct {
	world   ecs.World
	systems map[Schedule][]System
	started bool

	keyboard input.Keyboard
	assets   asset.Server
	time     *Time

	window   Window
	renderer Renderer

	tickRate         time.Duration
	tickRateChannel  chan time.Duration
	renderFrameLimit time.Duration

	diagnostics      *diagnostics
	profilingEnabled bool

	running     atomic.Bool
	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once
}

// App owns the world, the schedules and the frame loop.
type App interface {
	// World returns the ECS world. Only touch it from systems or before Run.
	//
	// Returns:
	//   - *ecs.World: the world
	World() *ecs.World

	// AddSystem registers a system. Systems of one schedule run in registration order.
	//
	// Parameters:
	//   - schedule: when the system runs
	//   - system: the system function
	//
	// Returns:
	//   - App: the app, for chaining
	AddSystem(schedule Schedule, system System) App

	// AddPlugin installs a plugin immediately.
	//
	// Parameters:
	//   - p: the plugin
	//
	// Returns:
	//   - App: the app, for chaining
	AddPlugin(p Plugin) App

	// Keyboard returns the keyboard fed by the window.
	//
	// Returns:
	//   - input.Keyboard: the keyboard state
	Keyboard() input.Keyboard

	// Assets returns the asset server.
	//
	// Returns:
	//   - asset.Server: the asset server
	Assets() asset.Server

	// Step runs one tick synchronously: Startup on the first call, then input latch,
	// Update, PostUpdate and render extraction.
	//
	// Parameters:
	//   - dt: tick duration in seconds
	Step(dt float32)

	// SetTickRate sets the tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// Run starts the tick and render goroutines and pumps window messages on the calling
	// goroutine until the window closes. Without a window it blocks until Quit.
	Run()

	// Quit signals all goroutines to stop. Safe to call multiple times.
	Quit()
}

var _ App = &app{}

// NewApp creates an App with the provided options.
// Defaults: 60 ticks per second, an asset server reading from "assets", profiling off.
//
// Parameters:
//   - options: functional options for the app
//
// Returns:
//   - App: the new app
func NewApp(options ...AppBuilderOption) App {
	a := &app{
		world:           ecs.NewWorld(),
		systems:         make(map[Schedule][]System),
		keyboard:        input.NewKeyboard(),
		tickRate:        time.Second / 60,
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		diagnostics:     newDiagnostics(time.Second),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.assets == nil {
		a.assets = asset.NewServer()
	}

	a.time = &Time{}
	ecs.AddResource(&a.world, a.time)
	ecs.AddResource(&a.world, &Input{Keyboard: a.keyboard})
	ecs.AddResource(&a.world, &Assets{Server: a.assets})

	if a.window != nil {
		a.window.SetKeyDownCallback(a.keyboard.Press)
		a.window.SetKeyUpCallback(a.keyboard.Release)
		a.window.SetResizeCallback(func(width, height int) {
			if a.renderer != nil {
				a.renderer.Resize(width, height)
			}
		})
	}
	return a
}

func (a *app) World() *ecs.World {
	return &a.world
}

func (a *app) AddSystem(schedule Schedule, system System) App {
	a.systems[schedule] = append(a.systems[schedule], system)
	return a
}

func (a *app) AddPlugin(p Plugin) App {
	p.Build(a)
	return a
}

func (a *app) Keyboard() input.Keyboard {
	return a.keyboard
}

func (a *app) Assets() asset.Server {
	return a.assets
}

func (a *app) Step(dt float32) {
	if !a.started {
		a.runSchedule(Startup)
		a.started = true
	}

	a.keyboard.Update()
	a.time.Delta = dt
	a.time.Elapsed += float64(dt)

	a.runSchedule(Update)
	a.runSchedule(PostUpdate)
	a.time.Tick++

	if a.renderer != nil {
		a.renderer.Extract(&a.world)
	}
	if a.profilingEnabled {
		a.diagnostics.tick()
	}
}

func (a *app) runSchedule(s Schedule) {
	for _, sys := range a.systems[s] {
		sys(&a.world)
	}
}

func (a *app) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	rate := frameInterval(fps)
	if !a.running.Load() {
		a.tickRate = rate
		return
	}
	// replace any pending update with the newest rate
	select {
	case <-a.tickRateChannel:
	default:
	}
	a.tickRateChannel <- rate
}

func (a *app) Run() {
	a.running.Store(true)
	a.wg.Add(1)
	go a.handleTick()
	if a.renderer != nil {
		a.wg.Add(1)
		go a.handleRender()
	}

	if a.window != nil {
		a.window.ProcessMessages()
		a.Quit()
	} else {
		<-a.quitChannel
	}
	a.wg.Wait()
	a.running.Store(false)
	if a.window != nil {
		if err := a.window.Close(); err != nil {
			log.Printf("[App] failed to close window: %v", err)
		}
	}
}

func (a *app) Quit() {
	a.quitOnce.Do(func() {
		a.running.Store(false)
		close(a.quitChannel)
	})
}

// handleTick runs Step at the configured tick rate until quit.
func (a *app) handleTick() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.tickRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-a.quitChannel:
			return
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			a.Step(dt)
		case rate := <-a.tickRateChannel:
			ticker.Reset(rate)
			a.tickRate = rate
		}
	}
}

// handleRender draws the latest snapshot as fast as the frame limit allows.
// A panic in the renderer is logged and shuts the app down.
func (a *app) handleRender() {
	defer a.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[App] render goroutine recovered from panic: %v", r)
			a.Quit()
		}
	}()

	for {
		select {
		case <-a.quitChannel:
			return
		default:
		}

		start := time.Now()
		if err := a.renderer.Render(); err != nil {
			log.Printf("[App] render failed: %v", err)
		}
		if a.profilingEnabled {
			a.diagnostics.frame()
		}
		if a.renderFrameLimit > 0 {
			if remaining := a.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}
