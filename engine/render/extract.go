package render

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/ecs/generic"
)

// Extractor copies renderable state out of the world.
type Extractor struct {
	cameras   *generic.Filter2[scene.Transform, scene.Camera]
	lights    *generic.Filter2[scene.Transform, light.DirectionalLight]
	meshes    *generic.Filter2[scene.Transform, scene.MeshBundle]
	instances *generic.Filter2[scene.Transform, scene.SceneInstance]
}

// NewExtractor creates an Extractor.
//
// Returns:
//   - *Extractor: the extractor
func NewExtractor() *Extractor {
	return &Extractor{
		cameras:   generic.NewFilter2[scene.Transform, scene.Camera](),
		lights:    generic.NewFilter2[scene.Transform, light.DirectionalLight](),
		meshes:    generic.NewFilter2[scene.Transform, scene.MeshBundle](),
		instances: generic.NewFilter2[scene.Transform, scene.SceneInstance](),
	}
}

// Extract snapshots the first camera, the first directional light, the ambient light and every
// static mesh and scene instance primitive.
//
// Parameters:
//   - w: the world
//
// Returns:
//   - *Frame: the snapshot
func (e *Extractor) Extract(w *ecs.World) *Frame {
	f := &Frame{
		Ambient:  light.NewAmbientLight(light.DefaultAmbientBrightness),
		Exposure: light.Exposure(light.DefaultEV100),
	}
	if tm, ok := app.Resource[app.Time](w); ok {
		f.Tick = tm.Tick
	}
	if amb, ok := app.Resource[light.AmbientLight](w); ok {
		f.Ambient = *amb
	}

	cq := e.cameras.Query(w)
	for cq.Next() {
		if f.Camera != nil {
			continue
		}
		t, c := cq.Get()
		f.Camera = &CameraView{
			View:       scene.View(*t),
			World:      scene.View(*t).Inv(),
			FovY:       c.FovY,
			Near:       c.Near,
			Far:        c.Far,
			ClearColor: c.ClearColor,
		}
		f.Exposure = light.Exposure(c.EV100)
	}

	cascades := generic.NewMap[light.CascadeShadowConfig](w)
	lq := e.lights.Query(w)
	for lq.Next() {
		if f.Light != nil {
			continue
		}
		t, l := lq.Get()
		lv := &LightView{Light: *l, Direction: light.Direction(t.Rotation)}
		if cascades.Has(lq.Entity()) {
			lv.Cascades = *cascades.Get(lq.Entity())
		} else {
			lv.Cascades, _ = light.NewCascadeShadowConfigBuilder().Build()
		}
		f.Light = lv
	}

	mq := e.meshes.Query(w)
	for mq.Next() {
		t, m := mq.Get()
		if m.Mesh == nil {
			continue
		}
		f.Draws = append(f.Draws, DrawItem{Model: t.Matrix(), Mesh: m.Mesh, Material: m.Material})
	}

	iq := e.instances.Query(w)
	for iq.Next() {
		t, inst := iq.Get()
		f.Draws = appendInstance(f.Draws, t.Matrix(), inst)
	}
	return f
}

// appendInstance adds a draw per primitive of every node of the instance. Skinned primitives
// take their placement from the joints, so their model matrix is the entity's alone.
func appendInstance(draws []DrawItem, root mgl32.Mat4, inst *scene.SceneInstance) []DrawItem {
	sa := inst.Asset
	for ni, node := range sa.Nodes {
		for _, pi := range node.Primitives {
			prim := sa.Primitives[pi]
			item := DrawItem{Mesh: prim.Mesh, Material: sa.Material(prim.Material)}
			if node.Skin >= 0 && node.Skin < len(inst.Joints) && prim.Mesh.Skinned() {
				item.Model = root
				item.Joints = append([]mgl32.Mat4(nil), inst.Joints[node.Skin]...)
			} else {
				item.Model = root.Mul4(inst.Globals[ni])
			}
			draws = append(draws, item)
		}
	}
	return draws
}
