// Package render turns the ECS world into immutable frame snapshots the GPU renderer draws
// from another goroutine.
package render

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraView is the extracted camera.
type CameraView struct {
	View       mgl32.Mat4
	World      mgl32.Mat4
	FovY       float32
	Near       float32
	Far        float32
	ClearColor mgl32.Vec4
}

// Projection returns the camera projection for the given aspect ratio.
func (c CameraView) Projection(aspect float32) mgl32.Mat4 {
	return scene.Camera{FovY: c.FovY, Near: c.Near, Far: c.Far}.Projection(aspect)
}

// LightView is the extracted directional light.
type LightView struct {
	Light     light.DirectionalLight
	Direction mgl32.Vec3
	Cascades  light.CascadeShadowConfig
}

// DrawItem is one mesh draw. Mesh is shared with the asset and must not be modified.
type DrawItem struct {
	Model    mgl32.Mat4
	Mesh     *scene.Mesh
	Material scene.StandardMaterial
	// Joints holds the skinning matrices, nil for static meshes.
	Joints []mgl32.Mat4
}

// Frame is everything the renderer needs for one image.
type Frame struct {
	Tick     uint64
	Camera   *CameraView
	Light    *LightView
	Ambient  light.AmbientLight
	Exposure float32
	Draws    []DrawItem
}

// FrameSlot hands the latest frame from the tick goroutine to the render goroutine.
// Older frames are dropped.
type FrameSlot struct {
	mu    sync.Mutex
	frame *Frame
}

// Store replaces the held frame.
func (s *FrameSlot) Store(f *Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
}

// Load returns the latest frame, or nil before the first Store.
func (s *FrameSlot) Load() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}
