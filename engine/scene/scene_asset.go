package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one entry of a scene asset's node hierarchy.
type Node struct {
	Name   string
	Parent int // -1 for roots
	// Rest pose
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
	// Primitives indexes SceneAsset.Primitives drawn at this node.
	Primitives []int
	Skin       int // -1 when the node's mesh is not skinned
}

// Primitive is one drawable piece of geometry with its material.
type Primitive struct {
	Mesh     *Mesh
	Material int // index into SceneAsset.Materials, -1 for the default material
}

// Skin binds mesh joints to nodes.
type Skin struct {
	Joints      []int
	InverseBind []mgl32.Mat4
}

// SceneAsset is a decoded scene: nodes, geometry, skins and materials.
type SceneAsset struct {
	Name       string
	Nodes      []Node
	Primitives []Primitive
	Skins      []Skin
	Materials  []StandardMaterial
}

// Parents returns the parent index of every node.
func (s *SceneAsset) Parents() []int {
	parents := make([]int, len(s.Nodes))
	for i, n := range s.Nodes {
		parents[i] = n.Parent
	}
	return parents
}

// RestPose returns the pose stored in the asset.
func (s *SceneAsset) RestPose() *animation.Pose {
	p := animation.NewPose(len(s.Nodes))
	for i, n := range s.Nodes {
		p.Translations[i] = n.Translation
		p.Rotations[i] = n.Rotation
		p.Scales[i] = n.Scale
	}
	return p
}

// Animated reports whether any node is skinned, i.e. the scene can be driven by clips.
func (s *SceneAsset) Animated() bool {
	return len(s.Skins) > 0
}

// Material returns the material at index i, or a white material when i is out of range.
func (s *SceneAsset) Material(i int) StandardMaterial {
	if i < 0 || i >= len(s.Materials) {
		return NewMaterial(1, 1, 1)
	}
	return s.Materials[i]
}
