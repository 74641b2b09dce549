package renderer

import "github.com/cogentcore/webgpu/wgpu"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// meshBuffers are the uploaded vertex and index buffers of one mesh.
type meshBuffers struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

// RendererBackend owns the GPU device, the surface and the command encoding of one frame.
type RendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// SurfaceFormat returns the color format the surface was configured with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SampleCount returns the MSAA sample count of the main pass.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// ConfigureSurface configures the surface and recreates the depth and MSAA targets.
	// Must be called whenever the drawable size changes.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads vertex and index data.
	//
	// Parameters:
	//   - label: debug label prefix
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - *meshBuffers: the GPU buffers
	//   - error: an error if buffer creation fails
	InitMeshBuffers(label string, vertexData, indexData []byte, indexCount int) (*meshBuffers, error)

	// InitTexture uploads RGBA8 sRGB pixels.
	//
	// Parameters:
	//   - label: debug label
	//   - width: width in pixels
	//   - height: height in pixels
	//   - pixels: tightly packed RGBA8 rows
	//
	// Returns:
	//   - *wgpu.TextureView: a view of the new texture
	//   - error: an error if texture creation fails
	InitTexture(label string, width, height int, pixels []byte) (*wgpu.TextureView, error)

	// CreateUniformBuffer creates a buffer that can be bound as a uniform or storage buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - size: size in bytes
	//   - usage: BufferUsageUniform or BufferUsageStorage
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	//   - error: an error if buffer creation fails
	CreateUniformBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// WriteBuffer queues a write of data at offset 0 of buf.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - data: the bytes to write
	WriteBuffer(buf *wgpu.Buffer, data []byte)

	// CreateShadowDepthTexture creates a Depth32Float texture usable as a render attachment and
	// a sampled texture.
	//
	// Parameters:
	//   - width: width in pixels
	//   - height: height in pixels
	//
	// Returns:
	//   - *wgpu.TextureView: the view
	//   - *wgpu.Texture: the texture
	//   - error: an error if creation fails
	CreateShadowDepthTexture(width, height int) (*wgpu.TextureView, *wgpu.Texture, error)

	// CreateComparisonSampler creates the linear comparison sampler used for shadow lookups.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	//   - error: an error if creation fails
	CreateComparisonSampler() (*wgpu.Sampler, error)

	// CreateColorSampler creates the repeating linear sampler used for base color textures.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	//   - error: an error if creation fails
	CreateColorSampler() (*wgpu.Sampler, error)

	// BeginFrame acquires the next surface texture and opens the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the surface texture cannot be acquired
	BeginFrame() error

	// BeginShadowPass opens a depth-only pass into depthView.
	//
	// Parameters:
	//   - depthView: the shadow map view
	BeginShadowPass(depthView *wgpu.TextureView)

	// ShadowDrawCall records an indexed draw into the open shadow pass.
	//
	// Parameters:
	//   - p: the shadow pipeline
	//   - mesh: the mesh buffers
	//   - bindGroups: bind groups set at indices 0..n-1
	ShadowDrawCall(p *wgpu.RenderPipeline, mesh *meshBuffers, bindGroups []*wgpu.BindGroup)

	// EndShadowPass closes the shadow pass.
	EndShadowPass()

	// BeginMainPass opens the color pass into the acquired surface texture.
	//
	// Parameters:
	//   - clear: the clear color
	BeginMainPass(clear wgpu.Color)

	// DrawCall records an indexed draw into the open main pass.
	//
	// Parameters:
	//   - p: the forward pipeline
	//   - mesh: the mesh buffers
	//   - bindGroups: bind groups set at indices 0..n-1
	DrawCall(p *wgpu.RenderPipeline, mesh *meshBuffers, bindGroups []*wgpu.BindGroup)

	// EndFrame closes the main pass and submits the frame's commands.
	EndFrame()

	// Present presents the acquired surface texture and releases it.
	Present()
}
