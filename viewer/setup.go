package viewer

import (
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/app"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/ecs/generic"
)

// setup requests the character and its clips, inserts the Animations registry and the ambient
// light, and spawns the camera, the light, the character and the ground plane.
// Load failures surface later through the asset server.
func (v *systems) setup(w *ecs.World) {
	assets, ok := app.Resource[app.Assets](w)
	if !ok {
		log.Printf("[Viewer] no asset server, skipping scene setup")
		return
	}
	cfg := v.cfg

	handles := make([]asset.Handle, len(cfg.Animations))
	for i, p := range cfg.Animations {
		handles[i] = assets.Server.Load(p)
	}
	registry := NewAnimations(handles...)
	app.InsertResource(w, &registry)

	camTransform := scene.FromXYZ(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]).
		LookingAt(cfg.Camera.Target, mgl32.Vec3{0, 1, 0})
	cam := scene.NewCamera()
	generic.NewMap2[scene.Transform, scene.Camera](w).NewWith(&camTransform, &cam)

	cascades, err := cfg.Cascades()
	if err != nil {
		log.Printf("[Viewer] %v, using default cascades", err)
		cascades, _ = light.NewCascadeShadowConfigBuilder().Build()
	}
	rot := cfg.Light.Rotation
	lightTransform := scene.FromRotation(common.EulerZYX(rot[0], rot[1], rot[2]))
	sun := light.NewDirectionalLight(
		light.WithColor(cfg.Light.Color[0], cfg.Light.Color[1], cfg.Light.Color[2]),
		light.WithShadows(cfg.Light.Shadows),
	)
	generic.NewMap3[scene.Transform, light.DirectionalLight, light.CascadeShadowConfig](w).
		NewWith(&lightTransform, &sun, &cascades)

	s := cfg.Character.Scale
	foxTransform := scene.FromScale(mgl32.Vec3{s, s, s})
	generic.NewMap2[scene.Transform, scene.SceneRoot](w).
		NewWith(&foxTransform, &scene.SceneRoot{Handle: assets.Server.Load(cfg.Scene)})

	groundTransform := scene.Identity()
	ground := scene.MeshBundle{
		Mesh:     scene.Plane(cfg.Ground.Size, cfg.Ground.Size),
		Material: scene.NewMaterial(cfg.Ground.Color[0], cfg.Ground.Color[1], cfg.Ground.Color[2]),
	}
	generic.NewMap2[scene.Transform, scene.MeshBundle](w).NewWith(&groundTransform, &ground)

	ambient := light.NewAmbientLight(cfg.Ambient.Brightness)
	app.InsertResource(w, &ambient)

	log.Printf("[Viewer] scene %s with %d animations", cfg.Scene, registry.Len())
}
