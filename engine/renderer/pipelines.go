package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group layout of the forward pass:
//
//	group 0: view uniform, scene light uniform, shadow map, comparison sampler
//	group 1: draw uniform, joint storage, base color texture, base color sampler
//
// The shadow pass binds the scene light alone at group 0 and shares group 1.
type pipelineSet struct {
	sceneLayout       *wgpu.BindGroupLayout
	shadowSceneLayout *wgpu.BindGroupLayout
	drawLayout        *wgpu.BindGroupLayout

	forward *wgpu.RenderPipeline
	shadow  *wgpu.RenderPipeline
}

func uniformEntry(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	return entry
}

func storageEntry(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	return entry
}

func textureEntry(binding uint32, sampleType wgpu.TextureSampleType) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	entry.Texture.SampleType = sampleType
	entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	return entry
}

func samplerEntry(binding uint32, samplerType wgpu.SamplerBindingType) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	entry.Sampler.Type = samplerType
	return entry
}

// vertexBufferLayout describes gpuVertex.
func vertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: gpuVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			{Format: wgpu.VertexFormatUint32x4, Offset: 32, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 4},
		},
	}
}

func depthStencil(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func createShaderModule(device *wgpu.Device, label, source string) (*wgpu.ShaderModule, error) {
	code, err := preprocess(source, shaderIncludes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: code,
		},
	})
}

// newPipelineSet creates the bind group layouts and the forward and shadow pipelines.
//
// Parameters:
//   - device: the GPU device
//   - surfaceFormat: the color target format of the forward pass
//   - sampleCount: the MSAA sample count of the forward pass
//
// Returns:
//   - *pipelineSet: the layouts and pipelines
//   - error: an error if any GPU object cannot be created
func newPipelineSet(device *wgpu.Device, surfaceFormat wgpu.TextureFormat, sampleCount uint32) (*pipelineSet, error) {
	vertexFragment := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	ps := &pipelineSet{}
	var err error

	ps.sceneLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Scene Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, vertexFragment),
			uniformEntry(1, vertexFragment),
			textureEntry(2, wgpu.TextureSampleTypeDepth),
			samplerEntry(3, wgpu.SamplerBindingTypeComparison),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scene bind group layout: %w", err)
	}
	ps.shadowSceneLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Shadow Scene Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow scene bind group layout: %w", err)
	}
	ps.drawLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Draw Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, vertexFragment),
			storageEntry(1, wgpu.ShaderStageVertex),
			textureEntry(2, wgpu.TextureSampleTypeFloat),
			samplerEntry(3, wgpu.SamplerBindingTypeFiltering),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create draw bind group layout: %w", err)
	}

	forwardModule, err := createShaderModule(device, "Forward Shader", forwardShaderSource)
	if err != nil {
		return nil, err
	}
	forwardLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Forward Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{ps.sceneLayout, ps.drawLayout},
	})
	if err != nil {
		return nil, err
	}
	ps.forward, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Forward Render Pipeline",
		Layout: forwardLayout,
		Vertex: wgpu.VertexState{
			Module:     forwardModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     forwardModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: surfaceFormat, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil(wgpu.TextureFormatDepth24Plus),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create forward pipeline: %w", err)
	}

	shadowModule, err := createShaderModule(device, "Shadow Shader", shadowShaderSource)
	if err != nil {
		return nil, err
	}
	shadowLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Shadow Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{ps.shadowSceneLayout, ps.drawLayout},
	})
	if err != nil {
		return nil, err
	}
	ps.shadow, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Shadow Render Pipeline",
		Layout: shadowLayout,
		Vertex: wgpu.VertexState{
			Module:     shadowModule,
			EntryPoint: "vs_shadow",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout()},
		},
		// depth only
		Fragment: nil,
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil(wgpu.TextureFormatDepth32Float),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow pipeline: %w", err)
	}

	return ps, nil
}
