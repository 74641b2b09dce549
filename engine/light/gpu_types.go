package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUSceneLightSource is the canonical WGSL definition of the SceneLight struct.
// Matches GPUSceneLight layout exactly (128 bytes, uniform aligned).
//
//go:embed assets/scene_light.wgsl
var GPUSceneLightSource string

// GPUSceneLight is the GPU-aligned lighting uniform: one directional light with its shadow
// cascade and the ambient term. Matches the WGSL SceneLight struct (see GPUSceneLightSource).
// Size: 128 bytes.
//
// Layout:
//
//	mat4x4<f32> light_vp        (64 bytes, offset   0)
//	vec3<f32>   direction       (12 bytes, offset  64)
//	f32         illuminance     ( 4 bytes, offset  76)
//	vec3<f32>   color           (12 bytes, offset  80)
//	f32         exposure        ( 4 bytes, offset  92)
//	vec3<f32>   ambient         (12 bytes, offset  96)
//	u32         shadows_enabled ( 4 bytes, offset 108)
//	vec2<f32>   texel_size      ( 8 bytes, offset 112)
//	f32         bias            ( 4 bytes, offset 120)
//	f32         normal_bias     ( 4 bytes, offset 124)
type GPUSceneLight struct {
	LightVP        [16]float32
	Direction      [3]float32
	Illuminance    float32
	Color          [3]float32
	Exposure       float32
	Ambient        [3]float32
	ShadowsEnabled uint32
	TexelSize      [2]float32
	Bias           float32
	NormalBias     float32
}

// NewGPUSceneLight packs a directional light, its first cascade fit and the ambient light.
//
// Parameters:
//   - l: the directional light
//   - dir: the direction the light travels
//   - fit: the cascade projection used for the shadow map
//   - ambient: the ambient light
//   - exposure: the camera exposure multiplier
//
// Returns:
//   - GPUSceneLight: the packed uniform
func NewGPUSceneLight(l DirectionalLight, dir mgl32.Vec3, fit CascadeFit, ambient AmbientLight, exposure float32) GPUSceneLight {
	g := GPUSceneLight{
		LightVP:     fit.ViewProj,
		Direction:   dir,
		Illuminance: l.Illuminance,
		Color:       l.Color,
		Exposure:    exposure,
		Ambient:     ambient.Color.Mul(ambient.Brightness),
		TexelSize:   [2]float32{1.0 / ShadowMapResolution, 1.0 / ShadowMapResolution},
		Bias:        l.ShadowDepthBias,
		NormalBias:  fit.TexelWorldSize(ShadowMapResolution) * l.ShadowNormalBias,
	}
	if l.ShadowsEnabled {
		g.ShadowsEnabled = 1
	}
	return g
}

// Size returns the size of the GPUSceneLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUSceneLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (g *GPUSceneLight) Marshal() []byte {
	buf := make([]byte, 128)
	putF32 := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	for i, v := range g.LightVP {
		putF32(i*4, v)
	}
	for i := 0; i < 3; i++ {
		putF32(64+i*4, g.Direction[i])
		putF32(80+i*4, g.Color[i])
		putF32(96+i*4, g.Ambient[i])
	}
	putF32(76, g.Illuminance)
	putF32(92, g.Exposure)
	binary.LittleEndian.PutUint32(buf[108:112], g.ShadowsEnabled)
	putF32(112, g.TexelSize[0])
	putF32(116, g.TexelSize[1])
	putF32(120, g.Bias)
	putF32(124, g.NormalBias)
	return buf
}
