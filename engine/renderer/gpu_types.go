package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// gpuVertex is one interleaved vertex. Matches VertexInput in assets/skinning.wgsl.
// Size: 64 bytes.
//
// Layout:
//
//	vec3<f32> position      (12 bytes, offset  0)
//	vec3<f32> normal        (12 bytes, offset 12)
//	vec2<f32> uv            ( 8 bytes, offset 24)
//	vec4<u32> joint_indices (16 bytes, offset 32)
//	vec4<f32> joint_weights (16 bytes, offset 48)
type gpuVertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Joints   [4]uint32
	Weights  [4]float32
}

const gpuVertexSize = 64

// gpuView is the per-frame camera uniform. Matches ViewUniform in assets/forward.wgsl.
// Size: 80 bytes.
type gpuView struct {
	ViewProj [16]float32
	Position [3]float32
	// EncodeSRGB is 1 when the surface format is linear and the shader must encode.
	EncodeSRGB uint32
}

// gpuDraw is the per-draw uniform. Matches DrawUniform in assets/skinning.wgsl.
// Size: 80 bytes.
type gpuDraw struct {
	Model     [16]float32
	BaseColor [4]float32
}

// packVertices interleaves a mesh for upload. Static meshes and skinned vertices without
// influence are bound fully to joint 0, which is the identity for static draws.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - []gpuVertex: one vertex per mesh position
func packVertices(m *scene.Mesh) []gpuVertex {
	skinned := m.Skinned()
	out := make([]gpuVertex, len(m.Positions))
	for i, p := range m.Positions {
		v := gpuVertex{Position: p, Weights: [4]float32{1, 0, 0, 0}}
		if i < len(m.Normals) {
			v.Normal = m.Normals[i]
		}
		if i < len(m.UVs) {
			v.UV = m.UVs[i]
		}
		if skinned {
			w := m.Weights[i]
			if sum := w[0] + w[1] + w[2] + w[3]; sum > 0 {
				v.Joints = m.Joints[i]
				v.Weights = w.Mul(1 / sum)
			}
		}
		out[i] = v
	}
	return out
}

var identityJoints = []mgl32.Mat4{mgl32.Ident4()}

// jointPalette returns the joint matrices for a draw, a single identity for static draws.
func jointPalette(joints []mgl32.Mat4) []mgl32.Mat4 {
	if len(joints) == 0 {
		return identityJoints
	}
	return joints
}

// jointCapacity rounds a joint count up to a power of two so storage buffers are reallocated
// rarely.
func jointCapacity(n int) int {
	c := 1
	for c < n {
		c <<= 1
	}
	return c
}
