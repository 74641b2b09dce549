package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapResolution is the width and height in texels of the shadow depth texture.
const ShadowMapResolution = 2048

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.02

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Higher values push
// the shadow sample point further along the surface normal, reducing
// self-shadowing on concave geometry at the cost of slight shadow
// detachment from contact points.
const DefaultShadowNormalBiasScale float32 = 1.8

// CascadeFit is the light-space projection that covers one cascade.
type CascadeFit struct {
	// ViewProj maps world space into the light's clip space.
	ViewProj mgl32.Mat4
	// Radius is the radius of the bounding sphere of the cascade slice.
	Radius float32
}

// TexelWorldSize returns the world-space width of one shadow map texel.
//
// Parameters:
//   - resolution: shadow map resolution in texels
//
// Returns:
//   - float32: texel size in world units
func (f CascadeFit) TexelWorldSize(resolution int) float32 {
	return 2 * f.Radius / float32(resolution)
}

// FitCascade builds an orthographic light view-projection enclosing the slice of the camera
// frustum between near and far view distances. The slice is wrapped in a bounding sphere so the
// projection does not change size as the camera rotates.
//
// Parameters:
//   - dir: normalized direction the light travels
//   - cameraWorld: the camera's world matrix (inverse view)
//   - fovY: camera vertical field of view in radians
//   - aspect: camera aspect ratio
//   - near: slice near distance
//   - far: slice far distance
//
// Returns:
//   - CascadeFit: the projection and sphere radius
func FitCascade(dir mgl32.Vec3, cameraWorld mgl32.Mat4, fovY, aspect, near, far float32) CascadeFit {
	tanHalf := float32(math.Tan(float64(fovY) / 2))

	var corners [8]mgl32.Vec3
	for i, z := range [2]float32{near, far} {
		h := z * tanHalf
		w := h * aspect
		for j, xy := range [4][2]float32{{-w, -h}, {w, -h}, {w, h}, {-w, h}} {
			corners[i*4+j] = cameraWorld.Mul4x1(mgl32.Vec4{xy[0], xy[1], -z, 1}).Vec3()
		}
	}

	var center mgl32.Vec3
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Mul(1.0 / 8)

	var radius float32
	for _, c := range corners {
		if d := c.Sub(center).Len(); d > radius {
			radius = d
		}
	}
	// round up so sub-texel jitter does not resize the projection
	radius = float32(math.Ceil(float64(radius)*16) / 16)

	up := mgl32.Vec3{0, 1, 0}
	if absF32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}
	// back the eye off past the sphere so casters just outside the slice still land in the map
	eye := center.Sub(dir.Mul(2 * radius))
	view := mgl32.LookAtV(eye, center, up)
	proj := common.Orthographic(-radius, radius, -radius, radius, 0, 3*radius)

	return CascadeFit{ViewProj: proj.Mul4(view), Radius: radius}
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
