package scene

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera component. It renders from the entity's Transform.
type Camera struct {
	// FovY is the vertical field of view in radians.
	FovY float32
	Near float32
	Far  float32
	// ClearColor is the background color.
	ClearColor mgl32.Vec4
	// EV100 is the exposure value applied to physical light units.
	EV100 float32
}

// NewCamera returns a camera with a 45 degree field of view, near plane 0.1, far plane 1000
// and an exposure of EV100 9.7.
func NewCamera() Camera {
	return Camera{
		FovY:       float32(math.Pi / 4),
		Near:       0.1,
		Far:        1000,
		ClearColor: mgl32.Vec4{0.1, 0.1, 0.1, 1},
		EV100:      9.7,
	}
}

// Projection returns the projection matrix for the given viewport aspect ratio.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return common.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// View returns the view matrix for a camera placed at t.
func View(t Transform) mgl32.Mat4 {
	return common.TRS(t.Translation, t.Rotation, mgl32.Vec3{1, 1, 1}).Inv()
}
