package scene

import "github.com/go-gl/mathgl/mgl32"

// Image is decoded RGBA8 pixel data.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// StandardMaterial is an unlit-base-color material lit by the scene lights.
type StandardMaterial struct {
	BaseColor mgl32.Vec4
	// BaseColorTexture is multiplied with BaseColor when set.
	BaseColorTexture *Image
}

// NewMaterial returns an opaque material of the given color.
func NewMaterial(r, g, b float32) StandardMaterial {
	return StandardMaterial{BaseColor: mgl32.Vec4{r, g, b, 1}}
}

// Mesh is indexed triangle geometry. Joints and Weights are set only for skinned meshes.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Joints    [][4]uint32
	Weights   []mgl32.Vec4
	Indices   []uint32
}

// Skinned reports whether the mesh carries joint influences.
func (m *Mesh) Skinned() bool {
	return len(m.Joints) == len(m.Positions) && len(m.Weights) == len(m.Positions) && len(m.Positions) > 0
}

// Plane builds a Y-up quad centered on the origin.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//
// Returns:
//   - *Mesh: four vertices and two counter-clockwise triangles facing +Y
func Plane(width, depth float32) *Mesh {
	hw, hd := width/2, depth/2
	up := mgl32.Vec3{0, 1, 0}
	return &Mesh{
		Positions: []mgl32.Vec3{{-hw, 0, -hd}, {-hw, 0, hd}, {hw, 0, hd}, {hw, 0, -hd}},
		Normals:   []mgl32.Vec3{up, up, up, up},
		UVs:       []mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// MeshBundle is a static mesh entity: geometry plus material.
type MeshBundle struct {
	Mesh     *Mesh
	Material StandardMaterial
}
