// Package light holds the light components, cascade shadow configuration and the GPU layout
// of the scene lighting uniform.
package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultIlluminance is the default directional light illuminance in lux (ambient daylight).
const DefaultIlluminance float32 = 10000

// DefaultAmbientBrightness is the default ambient light brightness in cd/m^2.
const DefaultAmbientBrightness float32 = 80

// DefaultEV100 is the default camera exposure value at ISO 100.
const DefaultEV100 float32 = 9.7

// DirectionalLight is a light with no position that shines along the forward axis (-Z) of the
// entity's rotation. It is attached to an entity together with a scene.Transform and a
// CascadeShadowConfig.
type DirectionalLight struct {
	// Color is the linear RGB color of the light.
	Color mgl32.Vec3
	// Illuminance is the light intensity in lux.
	Illuminance float32
	// ShadowsEnabled marks the light as a shadow caster.
	ShadowsEnabled bool
	// ShadowDepthBias is the constant depth bias in world units.
	ShadowDepthBias float32
	// ShadowNormalBias scales the per-texel normal offset.
	ShadowNormalBias float32
}

// AmbientLight is the world resource for uniform, directionless light.
type AmbientLight struct {
	// Color is the linear RGB color of the light.
	Color mgl32.Vec3
	// Brightness is the light intensity in cd/m^2.
	Brightness float32
}

// NewAmbientLight creates a white ambient light with the given brightness.
//
// Parameters:
//   - brightness: intensity in cd/m^2
//
// Returns:
//   - AmbientLight: the ambient light
func NewAmbientLight(brightness float32) AmbientLight {
	return AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Brightness: brightness}
}

// Direction returns the direction light travels for an entity with the given rotation.
//
// Parameters:
//   - rotation: the light entity's world rotation
//
// Returns:
//   - mgl32.Vec3: the normalized travel direction
func Direction(rotation mgl32.Quat) mgl32.Vec3 {
	return rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// Exposure converts an EV100 value into the multiplier applied to physical light units.
//
// Parameters:
//   - ev100: exposure value at ISO 100
//
// Returns:
//   - float32: the exposure multiplier
func Exposure(ev100 float32) float32 {
	return float32(1.0 / (1.2 * math.Pow(2, float64(ev100))))
}
