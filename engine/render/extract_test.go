package render

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs/generic"
)

func skinnedAsset() *scene.SceneAsset {
	mesh := &scene.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       make([]mgl32.Vec2, 3),
		Joints:    [][4]uint32{{0}, {0}, {1}},
		Weights:   []mgl32.Vec4{{1}, {1}, {1}},
		Indices:   []uint32{0, 1, 2},
	}
	static := scene.Plane(1, 1)
	return &scene.SceneAsset{
		Nodes: []scene.Node{
			{Parent: -1, Translation: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}, Skin: -1},
			{Parent: 0, Translation: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}, Skin: -1},
			{Parent: -1, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}, Skin: 0, Primitives: []int{0}},
			{Parent: 1, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}, Skin: -1, Primitives: []int{1}},
		},
		Primitives: []scene.Primitive{{Mesh: mesh, Material: -1}, {Mesh: static, Material: 0}},
		Skins:      []scene.Skin{{Joints: []int{0, 1}, InverseBind: []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}}},
		Materials:  []scene.StandardMaterial{scene.NewMaterial(0.5, 0.5, 0.5)},
	}
}

func TestExtract(t *testing.T) {
	a := app.NewApp()
	w := a.World()

	cam := scene.FromXYZ(0, 0, 10)
	camera := scene.NewCamera()
	camera.EV100 = 0
	generic.NewMap2[scene.Transform, scene.Camera](w).NewWith(&cam, &camera)

	lt := scene.Identity()
	dl := light.NewDirectionalLight(light.WithShadows(true))
	b := light.NewCascadeShadowConfigBuilder()
	b.NumCascades = 1
	cfg, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	generic.NewMap3[scene.Transform, light.DirectionalLight, light.CascadeShadowConfig](w).NewWith(&lt, &dl, &cfg)

	pt := scene.Identity()
	generic.NewMap2[scene.Transform, scene.MeshBundle](w).NewWith(&pt, &scene.MeshBundle{Mesh: scene.Plane(10, 10), Material: scene.NewMaterial(0.3, 0.3, 0.3)})

	ft := scene.FromXYZ(5, 0, 0)
	inst := scene.NewSceneInstance(skinnedAsset())
	generic.NewMap2[scene.Transform, scene.SceneInstance](w).NewWith(&ft, inst)

	app.InsertResource(w, &light.AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Brightness: 2000})
	a.Step(0.1)

	f := NewExtractor().Extract(w)
	if f.Tick != 1 {
		t.Errorf("tick = %d", f.Tick)
	}
	if f.Camera == nil || !f.Camera.World.Col(3).ApproxEqual(mgl32.Vec4{0, 0, 10, 1}) {
		t.Fatalf("camera = %+v", f.Camera)
	}
	if f.Exposure != light.Exposure(0) {
		t.Errorf("exposure = %v", f.Exposure)
	}
	if f.Light == nil || !f.Light.Light.ShadowsEnabled || f.Light.Cascades.Len() != 1 {
		t.Fatalf("light = %+v", f.Light)
	}
	if !f.Light.Direction.ApproxEqual(mgl32.Vec3{0, 0, -1}) {
		t.Errorf("light direction = %v", f.Light.Direction)
	}
	if f.Ambient.Brightness != 2000 {
		t.Errorf("ambient = %+v", f.Ambient)
	}

	if len(f.Draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(f.Draws))
	}
	var skinned, staticNode int
	for _, d := range f.Draws {
		switch {
		case d.Joints != nil:
			skinned++
			if !d.Model.Col(3).ApproxEqual(mgl32.Vec4{5, 0, 0, 1}) || len(d.Joints) != 2 {
				t.Errorf("skinned draw model = %v joints = %d", d.Model, len(d.Joints))
			}
			if d.Material.BaseColor != (mgl32.Vec4{1, 1, 1, 1}) {
				t.Errorf("default material = %v", d.Material.BaseColor)
			}
		case d.Mesh.Skinned():
			t.Error("skinned mesh drawn without joints")
		case d.Material.BaseColor == (mgl32.Vec4{0.5, 0.5, 0.5, 1}):
			staticNode++
			// node 3 sits under node 1, one unit up
			if !d.Model.Col(3).ApproxEqual(mgl32.Vec4{5, 1, 0, 1}) {
				t.Errorf("static node model = %v", d.Model)
			}
		}
	}
	if skinned != 1 || staticNode != 1 {
		t.Errorf("skinned = %d, static scene node = %d", skinned, staticNode)
	}

	// the snapshot owns its joint copies
	inst.Joints[0][0] = mgl32.Scale3D(9, 9, 9)
	for _, d := range f.Draws {
		if d.Joints != nil && d.Joints[0] == inst.Joints[0][0] {
			t.Error("joints alias the live instance")
		}
	}
}

func TestExtractDefaults(t *testing.T) {
	a := app.NewApp()
	f := NewExtractor().Extract(a.World())
	if f.Camera != nil || f.Light != nil || len(f.Draws) != 0 {
		t.Errorf("frame = %+v", f)
	}
	if f.Ambient.Brightness != light.DefaultAmbientBrightness {
		t.Errorf("ambient = %+v", f.Ambient)
	}
}

func TestFrameSlot(t *testing.T) {
	var slot FrameSlot
	if slot.Load() != nil {
		t.Fatal("empty slot returned a frame")
	}
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(tick uint64) {
			defer wg.Done()
			slot.Store(&Frame{Tick: tick})
		}(uint64(i))
	}
	wg.Wait()
	if f := slot.Load(); f == nil || f.Tick == 0 {
		t.Errorf("slot = %+v", f)
	}
}
