package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneRoot asks for the scene asset behind Handle to be spawned on the entity. The entity's
// Transform places the whole scene.
type SceneRoot struct {
	Handle asset.Handle
}

// SceneInstance is a spawned scene: the asset plus its live pose and skinning matrices.
// It is attached by the scene plugin once the asset has loaded.
type SceneInstance struct {
	Asset *SceneAsset
	// Pose is the current local pose, reset to Rest before every evaluation.
	Pose *animation.Pose
	Rest *animation.Pose
	// Globals holds the model-space matrix of every node.
	Globals []mgl32.Mat4
	// Joints holds the skinning matrices of every skin.
	Joints [][]mgl32.Mat4

	parents []int
}

// NewSceneInstance creates an instance of s in its rest pose.
//
// Parameters:
//   - s: the scene asset
//
// Returns:
//   - *SceneInstance: the instance with globals and joints computed
func NewSceneInstance(s *SceneAsset) *SceneInstance {
	rest := s.RestPose()
	pose := animation.NewPose(rest.Len())
	pose.CopyFrom(rest)
	inst := &SceneInstance{
		Asset:   s,
		Pose:    pose,
		Rest:    rest,
		Joints:  make([][]mgl32.Mat4, len(s.Skins)),
		parents: s.Parents(),
	}
	inst.Refresh()
	return inst
}

// Refresh recomputes Globals and Joints from Pose.
func (i *SceneInstance) Refresh() {
	i.Globals = i.Pose.Globals(i.parents, i.Globals)
	for s, skin := range i.Asset.Skins {
		i.Joints[s] = animation.JointMatrices(i.Globals, skin.Joints, skin.InverseBind, i.Joints[s])
	}
}
