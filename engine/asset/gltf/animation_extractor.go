package gltf

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

// clip converts animation index ai into a clip. Channels keep addressing nodes by their glTF
// index, which is also the node index of every scene asset from the same document.
// Morph target weight channels are skipped.
func (p *parser) clip(ai int) (*animation.Clip, error) {
	if ai < 0 || ai >= len(p.doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", ai)
	}
	anim := &p.doc.Animations[ai]

	curves := make([]animation.Curve, 0, len(anim.Channels))
	for i, ch := range anim.Channels {
		if ch.Target.Node == nil {
			continue
		}
		var prop animation.Property
		switch ch.Target.Path {
		case "translation":
			prop = animation.PropertyTranslation
		case "rotation":
			prop = animation.PropertyRotation
		case "scale":
			prop = animation.PropertyScale
		default:
			continue
		}
		if node := *ch.Target.Node; node < 0 || node >= len(p.doc.Nodes) {
			return nil, fmt.Errorf("animation %q channel %d: node %d out of range", anim.Name, i, node)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		s := anim.Samplers[ch.Sampler]

		interp, err := interpolation(s.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: %w", anim.Name, i, err)
		}

		times, err := p.scalars(s.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}

		var values []mgl32.Vec4
		if prop == animation.PropertyRotation {
			values, err = p.vec4s(s.Output)
		} else {
			var v3 []mgl32.Vec3
			v3, err = p.vec3s(s.Output)
			values = make([]mgl32.Vec4, len(v3))
			for n, v := range v3 {
				values[n] = v.Vec4(0)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read values: %w", anim.Name, i, err)
		}

		want := len(times)
		if interp == animation.InterpolationCubicSpline {
			want *= 3
		}
		if len(values) != want {
			return nil, fmt.Errorf("animation %q channel %d: %w: %d values for %d keyframes",
				anim.Name, i, ErrInvalidAccessor, len(values), len(times))
		}

		curves = append(curves, animation.Curve{
			Node:          *ch.Target.Node,
			Property:      prop,
			Interpolation: interp,
			Times:         times,
			Values:        values,
		})
	}

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("Animation%d", ai)
	}
	return animation.NewClip(name, curves), nil
}

func interpolation(s string) (animation.Interpolation, error) {
	switch s {
	case "", "LINEAR":
		return animation.InterpolationLinear, nil
	case "STEP":
		return animation.InterpolationStep, nil
	case "CUBICSPLINE":
		return animation.InterpolationCubicSpline, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", s)
	}
}
