// Package renderer draws extracted frames with WebGPU: a depth-only shadow pass for the first
// cascade of the directional light followed by a lit, skinned forward pass.
package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/render"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend   RendererBackend
	extractor *render.Extractor
	frames    render.FrameSlot

	// width and height are the configured surface size. A resize is recorded as pending and
	// applied on the render goroutine.
	width, height               int
	pendingWidth, pendingHeight int

	pipelines *pipelineSet
	resources *gpuResources

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	shadowResolution     int
}

// Renderer draws the world into a window surface. Extract, Render and Resize may be called from
// different goroutines.
type Renderer interface {
	app.Renderer

	// SetPresentMode changes the present mode. It takes effect at the next surface configuration.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU device for the window's surface, configures the surface and
// builds the pipelines. A missing GPU or a pipeline that fails to compile panics.
//
// Parameters:
//   - win: the window to draw into
//   - options: functional options applied before the device is created
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:               &sync.Mutex{},
		extractor:        render.NewExtractor(),
		shadowResolution: light.ShadowMapResolution,
	}
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}
	b := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	if r.pendingPresentMode != nil {
		b.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend = b

	r.width, r.height = win.Width(), win.Height()
	r.backend.ConfigureSurface(r.width, r.height)

	var err error
	r.pipelines, err = newPipelineSet(b.Device(), r.backend.SurfaceFormat(), r.backend.SampleCount())
	if err != nil {
		panic(fmt.Sprintf("failed to create render pipelines: %v", err))
	}
	r.resources, err = newGPUResources(r.backend, r.pipelines, r.shadowResolution)
	if err != nil {
		panic(fmt.Sprintf("failed to create render resources: %v", err))
	}
	log.Printf("[Renderer] surface %dx%d, format %v, %dx MSAA", r.width, r.height, r.backend.SurfaceFormat(), msaa)
	return r
}

func (r *renderer) Extract(w *ecs.World) {
	r.frames.Store(r.extractor.Extract(w))
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingWidth, r.pendingHeight = width, height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
	r.mu.Lock()
	defer r.mu.Unlock()
	// reconfigure at the current size on the next frame
	if r.pendingWidth == 0 {
		r.pendingWidth, r.pendingHeight = r.width, r.height
	}
}

// applyResize reconfigures the surface on the render goroutine when a resize is pending.
func (r *renderer) applyResize() {
	r.mu.Lock()
	w, h := r.pendingWidth, r.pendingHeight
	r.pendingWidth, r.pendingHeight = 0, 0
	r.mu.Unlock()

	if w <= 0 || h <= 0 {
		return
	}
	r.width, r.height = w, h
	r.backend.ConfigureSurface(w, h)
}

func (r *renderer) Render() error {
	r.applyResize()
	if r.width <= 0 || r.height <= 0 {
		return nil
	}

	f := r.frames.Load()
	clearColor := wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
	var draws []preparedDraw
	castShadows := false

	if f != nil && f.Camera != nil {
		aspect := float32(r.width) / float32(r.height)
		r.writeSceneUniforms(f, aspect)
		c := f.Camera.ClearColor
		clearColor = wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
		castShadows = f.Light != nil && f.Light.Light.ShadowsEnabled

		var err error
		draws, err = r.resources.prepare(f.Draws)
		if err != nil {
			return fmt.Errorf("failed to prepare draws: %w", err)
		}
	}

	if err := r.backend.BeginFrame(); err != nil {
		return err
	}

	if castShadows {
		r.backend.BeginShadowPass(r.resources.shadowView)
		for _, d := range draws {
			r.backend.ShadowDrawCall(r.pipelines.shadow, d.mesh, []*wgpu.BindGroup{r.resources.shadowSceneBindGroup, d.bindGroup})
		}
		r.backend.EndShadowPass()
	}

	r.backend.BeginMainPass(clearColor)
	for _, d := range draws {
		r.backend.DrawCall(r.pipelines.forward, d.mesh, []*wgpu.BindGroup{r.resources.sceneBindGroup, d.bindGroup})
	}
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

// writeSceneUniforms uploads the camera and light uniforms of a frame.
func (r *renderer) writeSceneUniforms(f *render.Frame, aspect float32) {
	_, encode := pickSurfaceFormat([]wgpu.TextureFormat{r.backend.SurfaceFormat()})
	view := gpuView{
		ViewProj: f.Camera.Projection(aspect).Mul4(f.Camera.View),
		Position: f.Camera.World.Col(3).Vec3(),
	}
	if encode {
		view.EncodeSRGB = 1
	}
	r.backend.WriteBuffer(r.resources.viewBuffer, common.StructToBytes(&view))

	sl := sceneLight(f, aspect, r.shadowResolution)
	r.backend.WriteBuffer(r.resources.lightBuffer, sl.Marshal())
}

// sceneLight packs the frame's light. Without a directional light only the ambient term
// contributes.
//
// Parameters:
//   - f: the frame, with a camera
//   - aspect: the viewport aspect ratio
//   - resolution: the shadow map edge length in texels
//
// Returns:
//   - light.GPUSceneLight: the packed uniform
func sceneLight(f *render.Frame, aspect float32, resolution int) light.GPUSceneLight {
	if f.Light == nil {
		return light.NewGPUSceneLight(
			light.DirectionalLight{},
			mgl32.Vec3{0, -1, 0},
			light.CascadeFit{ViewProj: mgl32.Ident4()},
			f.Ambient,
			f.Exposure,
		)
	}

	cascades := f.Light.Cascades
	fit := light.FitCascade(
		f.Light.Direction,
		f.Camera.World,
		f.Camera.FovY,
		aspect,
		cascades.Near(0),
		cascades.Far(0),
	)
	sl := light.NewGPUSceneLight(f.Light.Light, f.Light.Direction, fit, f.Ambient, f.Exposure)
	if resolution != light.ShadowMapResolution {
		texel := 1 / float32(resolution)
		sl.TexelSize = [2]float32{texel, texel}
		sl.NormalBias = fit.TexelWorldSize(resolution) * f.Light.Light.ShadowNormalBias
	}
	return sl
}
