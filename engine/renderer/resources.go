package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/render"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuResources owns everything uploaded to the GPU. It is only used from the render goroutine.
type gpuResources struct {
	backend   RendererBackend
	pipelines *pipelineSet

	viewBuffer  *wgpu.Buffer
	lightBuffer *wgpu.Buffer

	shadowView    *wgpu.TextureView
	shadowSampler *wgpu.Sampler
	colorSampler  *wgpu.Sampler
	whiteTexture  *wgpu.TextureView

	sceneBindGroup       *wgpu.BindGroup
	shadowSceneBindGroup *wgpu.BindGroup

	// Meshes and images are immutable once loaded, so they are cached by identity.
	meshes   map[*scene.Mesh]*meshBuffers
	textures map[*scene.Image]*wgpu.TextureView

	// slots holds per-draw buffers, reused frame to frame by draw index.
	slots []*drawSlot
}

type drawSlot struct {
	uniform       *wgpu.Buffer
	joints        *wgpu.Buffer
	jointCapacity int
	texture       *wgpu.TextureView
	bindGroup     *wgpu.BindGroup
}

// preparedDraw is a draw ready to record.
type preparedDraw struct {
	mesh      *meshBuffers
	bindGroup *wgpu.BindGroup
}

func newGPUResources(b RendererBackend, ps *pipelineSet, shadowResolution int) (*gpuResources, error) {
	res := &gpuResources{
		backend:   b,
		pipelines: ps,
		meshes:    make(map[*scene.Mesh]*meshBuffers),
		textures:  make(map[*scene.Image]*wgpu.TextureView),
	}

	var err error
	if res.viewBuffer, err = b.CreateUniformBuffer("View Uniform", 80, wgpu.BufferUsageUniform); err != nil {
		return nil, err
	}
	if res.lightBuffer, err = b.CreateUniformBuffer("Scene Light Uniform", 128, wgpu.BufferUsageUniform); err != nil {
		return nil, err
	}
	if res.shadowView, _, err = b.CreateShadowDepthTexture(shadowResolution, shadowResolution); err != nil {
		return nil, err
	}
	if res.shadowSampler, err = b.CreateComparisonSampler(); err != nil {
		return nil, err
	}
	if res.colorSampler, err = b.CreateColorSampler(); err != nil {
		return nil, err
	}
	if res.whiteTexture, err = b.InitTexture("White Texture", 1, 1, []byte{255, 255, 255, 255}); err != nil {
		return nil, err
	}

	device := b.Device()
	res.sceneBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Scene Bind Group",
		Layout: ps.sceneLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: res.viewBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: res.lightBuffer, Size: wgpu.WholeSize},
			{Binding: 2, TextureView: res.shadowView},
			{Binding: 3, Sampler: res.shadowSampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scene bind group: %w", err)
	}
	res.shadowSceneBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Shadow Scene Bind Group",
		Layout: ps.shadowSceneLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: res.lightBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow scene bind group: %w", err)
	}
	return res, nil
}

// prepare uploads whatever the draws need and writes their per-draw uniforms.
// Draws with empty meshes are skipped.
//
// Parameters:
//   - draws: the frame's draw items
//
// Returns:
//   - []preparedDraw: the draws in the same order
//   - error: an error if a GPU object cannot be created
func (res *gpuResources) prepare(draws []render.DrawItem) ([]preparedDraw, error) {
	out := make([]preparedDraw, 0, len(draws))
	for i, d := range draws {
		if d.Mesh == nil || len(d.Mesh.Indices) == 0 || len(d.Mesh.Positions) == 0 {
			continue
		}
		mesh, err := res.mesh(d.Mesh)
		if err != nil {
			return nil, err
		}
		bg, err := res.writeSlot(i, d)
		if err != nil {
			return nil, err
		}
		out = append(out, preparedDraw{mesh: mesh, bindGroup: bg})
	}
	return out, nil
}

func (res *gpuResources) mesh(m *scene.Mesh) (*meshBuffers, error) {
	if mb, ok := res.meshes[m]; ok {
		return mb, nil
	}
	label := fmt.Sprintf("Mesh %d", len(res.meshes))
	mb, err := res.backend.InitMeshBuffers(label, common.SliceToBytes(packVertices(m)), common.SliceToBytes(m.Indices), len(m.Indices))
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	res.meshes[m] = mb
	return mb, nil
}

func (res *gpuResources) texture(img *scene.Image) (*wgpu.TextureView, error) {
	if img == nil || img.Width == 0 || img.Height == 0 {
		return res.whiteTexture, nil
	}
	if view, ok := res.textures[img]; ok {
		return view, nil
	}
	label := fmt.Sprintf("Base Color Texture %d", len(res.textures))
	view, err := res.backend.InitTexture(label, img.Width, img.Height, img.Pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	res.textures[img] = view
	return view, nil
}

// writeSlot writes draw i into its slot, growing the joint buffer and rebuilding the bind
// group when needed.
func (res *gpuResources) writeSlot(i int, d render.DrawItem) (*wgpu.BindGroup, error) {
	for len(res.slots) <= i {
		res.slots = append(res.slots, &drawSlot{})
	}
	slot := res.slots[i]

	var err error
	if slot.uniform == nil {
		if slot.uniform, err = res.backend.CreateUniformBuffer(fmt.Sprintf("Draw %d Uniform", i), 80, wgpu.BufferUsageUniform); err != nil {
			return nil, err
		}
	}

	joints := jointPalette(d.Joints)
	if len(joints) > slot.jointCapacity {
		if slot.joints != nil {
			slot.joints.Release()
		}
		slot.jointCapacity = jointCapacity(len(joints))
		size := uint64(slot.jointCapacity) * 64
		if slot.joints, err = res.backend.CreateUniformBuffer(fmt.Sprintf("Draw %d Joints", i), size, wgpu.BufferUsageStorage); err != nil {
			slot.jointCapacity = 0
			return nil, err
		}
		slot.bindGroup = nil
	}

	tex, err := res.texture(d.Material.BaseColorTexture)
	if err != nil {
		return nil, err
	}
	if tex != slot.texture {
		slot.texture = tex
		slot.bindGroup = nil
	}

	if slot.bindGroup == nil {
		slot.bindGroup, err = res.backend.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Draw %d Bind Group", i),
			Layout: res.pipelines.drawLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: slot.uniform, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: slot.joints, Size: wgpu.WholeSize},
				{Binding: 2, TextureView: slot.texture},
				{Binding: 3, Sampler: res.colorSampler},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create draw bind group: %w", err)
		}
	}

	uniform := gpuDraw{Model: d.Model, BaseColor: d.Material.BaseColor}
	res.backend.WriteBuffer(slot.uniform, common.StructToBytes(&uniform))
	res.backend.WriteBuffer(slot.joints, common.SliceToBytes(joints))
	return slot.bindGroup, nil
}
