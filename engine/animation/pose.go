package animation

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose holds the local transform of every node in a node hierarchy.
type Pose struct {
	Translations []mgl32.Vec3
	Rotations    []mgl32.Quat
	Scales       []mgl32.Vec3
}

// NewPose creates an identity pose for n nodes.
//
// Parameters:
//   - n: node count
//
// Returns:
//   - *Pose: the new pose
func NewPose(n int) *Pose {
	p := &Pose{
		Translations: make([]mgl32.Vec3, n),
		Rotations:    make([]mgl32.Quat, n),
		Scales:       make([]mgl32.Vec3, n),
	}
	for i := 0; i < n; i++ {
		p.Rotations[i] = mgl32.QuatIdent()
		p.Scales[i] = mgl32.Vec3{1, 1, 1}
	}
	return p
}

// Len returns the node count.
func (p *Pose) Len() int {
	return len(p.Translations)
}

// CopyFrom overwrites p with the transforms of src. Both poses must have the same length.
func (p *Pose) CopyFrom(src *Pose) {
	copy(p.Translations, src.Translations)
	copy(p.Rotations, src.Rotations)
	copy(p.Scales, src.Scales)
}

// Local returns the local matrix of node i.
func (p *Pose) Local(i int) mgl32.Mat4 {
	return common.TRS(p.Translations[i], p.Rotations[i], p.Scales[i])
}

// Globals resolves model-space matrices for every node given each node's parent index
// (-1 for roots). Node order does not matter.
//
// Parameters:
//   - parents: parent index per node
//   - out: destination, resized to the node count
//
// Returns:
//   - []mgl32.Mat4: the model-space matrices
func (p *Pose) Globals(parents []int, out []mgl32.Mat4) []mgl32.Mat4 {
	n := p.Len()
	if cap(out) < n {
		out = make([]mgl32.Mat4, n)
	}
	out = out[:n]
	done := make([]bool, n)

	var resolve func(i int) mgl32.Mat4
	resolve = func(i int) mgl32.Mat4 {
		if done[i] {
			return out[i]
		}
		m := p.Local(i)
		if parent := parents[i]; parent >= 0 {
			m = resolve(parent).Mul4(m)
		}
		out[i] = m
		done[i] = true
		return m
	}
	for i := 0; i < n; i++ {
		resolve(i)
	}
	return out
}

// JointMatrices computes skinning matrices: the model-space matrix of each joint node
// multiplied by its inverse bind matrix.
//
// Parameters:
//   - globals: model-space matrix per node
//   - joints: node index per joint
//   - inverseBind: inverse bind matrix per joint
//   - out: destination, resized to the joint count
//
// Returns:
//   - []mgl32.Mat4: the joint matrices
func JointMatrices(globals []mgl32.Mat4, joints []int, inverseBind []mgl32.Mat4, out []mgl32.Mat4) []mgl32.Mat4 {
	if cap(out) < len(joints) {
		out = make([]mgl32.Mat4, len(joints))
	}
	out = out[:len(joints)]
	for j, node := range joints {
		ibm := mgl32.Ident4()
		if j < len(inverseBind) {
			ibm = inverseBind[j]
		}
		out[j] = globals[node].Mul4(ibm)
	}
	return out
}
