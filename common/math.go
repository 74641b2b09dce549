package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective builds a right-handed perspective projection that maps view-space depth
// into the WebGPU clip range [0, 1] instead of the OpenGL range [-1, 1] that mgl32 produces.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width divided by height
//   - near: distance to the near clip plane
//   - far: distance to the far clip plane
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	m := mgl32.Mat4{}
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// Orthographic builds a right-handed orthographic projection with WebGPU [0, 1] depth.
//
// Parameters:
//   - left, right, bottom, top: extents of the view volume
//   - near, far: distances to the clip planes
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Orthographic(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	m := mgl32.Ident4()
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 1 / (near - far)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = near / (near - far)
	return m
}

// EulerZYX composes a rotation of a radians about Z, then b about Y, then c about X,
// applied in the order Rz * Ry * Rx.
//
// Parameters:
//   - a: angle about the Z axis in radians
//   - b: angle about the Y axis in radians
//   - c: angle about the X axis in radians
//
// Returns:
//   - mgl32.Quat: the normalized rotation
func EulerZYX(a, b, c float32) mgl32.Quat {
	qz := mgl32.QuatRotate(a, mgl32.Vec3{0, 0, 1})
	qy := mgl32.QuatRotate(b, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(c, mgl32.Vec3{1, 0, 0})
	return qz.Mul(qy).Mul(qx).Normalize()
}

// TRS composes translation, rotation and scale into a model matrix (T * R * S).
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func TRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(r.Mat4()).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}
