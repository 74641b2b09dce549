package light

import "github.com/go-gl/mathgl/mgl32"

// DirectionalLightBuilderOption configures a DirectionalLight during construction.
type DirectionalLightBuilderOption func(*DirectionalLight)

// NewDirectionalLight creates a white, non-shadow-casting directional light at
// DefaultIlluminance and applies the options.
//
// Parameters:
//   - options: functional options for the light
//
// Returns:
//   - DirectionalLight: the configured light
func NewDirectionalLight(options ...DirectionalLightBuilderOption) DirectionalLight {
	l := DirectionalLight{
		Color:            mgl32.Vec3{1, 1, 1},
		Illuminance:      DefaultIlluminance,
		ShadowDepthBias:  DefaultShadowBias,
		ShadowNormalBias: DefaultShadowNormalBiasScale,
	}
	for _, opt := range options {
		opt(&l)
	}
	return l
}

// WithColor is an option builder that sets the linear RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - DirectionalLightBuilderOption: a function that applies the color option
func WithColor(r, g, b float32) DirectionalLightBuilderOption {
	return func(l *DirectionalLight) {
		l.Color = mgl32.Vec3{r, g, b}
	}
}

// WithIlluminance is an option builder that sets the illuminance in lux.
//
// Parameters:
//   - lux: the illuminance
//
// Returns:
//   - DirectionalLightBuilderOption: a function that applies the illuminance option
func WithIlluminance(lux float32) DirectionalLightBuilderOption {
	return func(l *DirectionalLight) {
		l.Illuminance = lux
	}
}

// WithShadows is an option builder that enables or disables shadow casting.
//
// Parameters:
//   - enabled: true to cast shadows
//
// Returns:
//   - DirectionalLightBuilderOption: a function that applies the shadow option
func WithShadows(enabled bool) DirectionalLightBuilderOption {
	return func(l *DirectionalLight) {
		l.ShadowsEnabled = enabled
	}
}

// WithShadowBias is an option builder that sets the depth and normal shadow biases.
//
// Parameters:
//   - depth: constant depth bias in world units
//   - normal: multiplier on the shadow texel world size
//
// Returns:
//   - DirectionalLightBuilderOption: a function that applies the bias option
func WithShadowBias(depth, normal float32) DirectionalLightBuilderOption {
	return func(l *DirectionalLight) {
		l.ShadowDepthBias = depth
		l.ShadowNormalBias = normal
	}
}
