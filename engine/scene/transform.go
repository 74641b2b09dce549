package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the world placement of an entity.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns a transform with no translation, rotation or scale.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// FromXYZ returns an identity transform translated to (x, y, z).
func FromXYZ(x, y, z float32) Transform {
	t := Identity()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// FromRotation returns an identity transform rotated by q.
func FromRotation(q mgl32.Quat) Transform {
	t := Identity()
	t.Rotation = q
	return t
}

// FromScale returns an identity transform with the given per-axis scale.
func FromScale(s mgl32.Vec3) Transform {
	t := Identity()
	t.Scale = s
	return t
}

// LookingAt returns a copy of t rotated so its forward axis (-Z) points at target,
// with its up axis as close to up as possible.
//
// Parameters:
//   - target: the world point to face
//   - up: the preferred up direction
//
// Returns:
//   - Transform: the rotated transform
func (t Transform) LookingAt(target, up mgl32.Vec3) Transform {
	view := mgl32.LookAtV(t.Translation, target, up)
	t.Rotation = mgl32.Mat4ToQuat(view.Inv()).Normalize()
	return t
}

// Forward returns the direction of the local -Z axis in world space.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Matrix returns the model matrix T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return common.TRS(t.Translation, t.Rotation, t.Scale)
}
