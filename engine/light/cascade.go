package light

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCascadeConfig is returned by CascadeShadowConfigBuilder.Build for inconsistent settings.
var ErrInvalidCascadeConfig = errors.New("invalid cascade shadow config")

// CascadeShadowConfig splits the camera view range into cascades, each with its own shadow
// map. Cascade i covers view distances [Near(i), Far(i)].
type CascadeShadowConfig struct {
	// Bounds holds the far bound of every cascade, increasing.
	Bounds []float32
	// Overlap is the fraction of the previous cascade that the next one also covers.
	Overlap float32
	// MinimumDistance is the near bound of the first cascade.
	MinimumDistance float32
}

// Len returns the number of cascades.
func (c CascadeShadowConfig) Len() int {
	return len(c.Bounds)
}

// Far returns the far view distance of cascade i.
func (c CascadeShadowConfig) Far(i int) float32 {
	return c.Bounds[i]
}

// Near returns the near view distance of cascade i.
func (c CascadeShadowConfig) Near(i int) float32 {
	if i == 0 {
		return c.MinimumDistance
	}
	return (1 - c.Overlap) * c.Bounds[i-1]
}

// CascadeShadowConfigBuilder describes a CascadeShadowConfig by its distances.
// Start from NewCascadeShadowConfigBuilder and override the fields that matter.
type CascadeShadowConfigBuilder struct {
	// NumCascades is the number of shadow cascades.
	NumCascades int
	// MinimumDistance is where the first cascade starts.
	MinimumDistance float32
	// MaximumDistance is where the last cascade ends.
	MaximumDistance float32
	// FirstCascadeFarBound is where the first cascade ends. Later bounds grow exponentially
	// from it to MaximumDistance.
	FirstCascadeFarBound float32
	// Overlap is the fraction of each cascade repeated in the next, in [0, 1).
	Overlap float32
}

// NewCascadeShadowConfigBuilder returns the default builder: 4 cascades from 0.1 to 1000 with
// the first ending at 5 and 20% overlap.
//
// Returns:
//   - CascadeShadowConfigBuilder: the builder with defaults applied
func NewCascadeShadowConfigBuilder() CascadeShadowConfigBuilder {
	return CascadeShadowConfigBuilder{
		NumCascades:          4,
		MinimumDistance:      0.1,
		MaximumDistance:      1000,
		FirstCascadeFarBound: 5,
		Overlap:              0.2,
	}
}

// Build validates the builder and computes the cascade bounds.
//
// Returns:
//   - CascadeShadowConfig: the computed configuration
//   - error: ErrInvalidCascadeConfig wrapped with the failing rule
func (b CascadeShadowConfigBuilder) Build() (CascadeShadowConfig, error) {
	switch {
	case b.NumCascades <= 0:
		return CascadeShadowConfig{}, fmt.Errorf("%w: num cascades %d must be positive", ErrInvalidCascadeConfig, b.NumCascades)
	case b.MinimumDistance < 0:
		return CascadeShadowConfig{}, fmt.Errorf("%w: minimum distance %g must not be negative", ErrInvalidCascadeConfig, b.MinimumDistance)
	case b.NumCascades > 1 && b.MinimumDistance >= b.FirstCascadeFarBound:
		return CascadeShadowConfig{}, fmt.Errorf("%w: minimum distance %g must be below first cascade far bound %g",
			ErrInvalidCascadeConfig, b.MinimumDistance, b.FirstCascadeFarBound)
	case b.NumCascades > 1 && b.FirstCascadeFarBound > b.MaximumDistance:
		return CascadeShadowConfig{}, fmt.Errorf("%w: first cascade far bound %g is past maximum distance %g",
			ErrInvalidCascadeConfig, b.FirstCascadeFarBound, b.MaximumDistance)
	case b.MaximumDistance < b.MinimumDistance:
		return CascadeShadowConfig{}, fmt.Errorf("%w: maximum distance %g is below minimum distance %g",
			ErrInvalidCascadeConfig, b.MaximumDistance, b.MinimumDistance)
	case b.Overlap < 0 || b.Overlap >= 1:
		return CascadeShadowConfig{}, fmt.Errorf("%w: overlap %g must be in [0, 1)", ErrInvalidCascadeConfig, b.Overlap)
	}

	return CascadeShadowConfig{
		Bounds:          cascadeBounds(b.NumCascades, b.FirstCascadeFarBound, b.MaximumDistance),
		Overlap:         b.Overlap,
		MinimumDistance: b.MinimumDistance,
	}, nil
}

// cascadeBounds places the far bounds on a geometric progression from first to max.
func cascadeBounds(num int, first, max float32) []float32 {
	if num == 1 {
		return []float32{max}
	}
	base := math.Pow(float64(max/first), 1/float64(num-1))
	bounds := make([]float32, num)
	for i := range bounds {
		bounds[i] = first * float32(math.Pow(base, float64(i)))
	}
	return bounds
}
