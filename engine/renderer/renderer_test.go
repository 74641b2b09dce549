package renderer

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/render"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

func TestGPUTypeSizes(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"vertex", unsafe.Sizeof(gpuVertex{}), gpuVertexSize},
		{"view", unsafe.Sizeof(gpuView{}), 80},
		{"draw", unsafe.Sizeof(gpuDraw{}), 80},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s size = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestPackVerticesStatic(t *testing.T) {
	verts := packVertices(scene.Plane(2, 2))
	if len(verts) != 4 {
		t.Fatalf("len = %d", len(verts))
	}
	for i, v := range verts {
		if v.Joints != [4]uint32{} || v.Weights != [4]float32{1, 0, 0, 0} {
			t.Errorf("vertex %d bound to %v/%v, want joint 0 weight 1", i, v.Joints, v.Weights)
		}
		if v.Normal != [3]float32{0, 1, 0} {
			t.Errorf("vertex %d normal = %v", i, v.Normal)
		}
	}
	if verts[2].UV != [2]float32{1, 1} {
		t.Errorf("uv = %v", verts[2].UV)
	}
}

func TestPackVerticesSkinned(t *testing.T) {
	m := &scene.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}},
		Joints:    [][4]uint32{{2, 3, 0, 0}, {1, 0, 0, 0}},
		Weights:   []mgl32.Vec4{{1, 1, 0, 0}, {0, 0, 0, 0}},
		Indices:   []uint32{0, 1, 0},
	}
	verts := packVertices(m)

	if verts[0].Joints != [4]uint32{2, 3, 0, 0} || verts[0].Weights != [4]float32{0.5, 0.5, 0, 0} {
		t.Errorf("vertex 0 = %v/%v, want normalized weights", verts[0].Joints, verts[0].Weights)
	}
	if verts[1].Joints != [4]uint32{} || verts[1].Weights != [4]float32{1, 0, 0, 0} {
		t.Errorf("vertex 1 = %v/%v, want fallback to joint 0", verts[1].Joints, verts[1].Weights)
	}
}

func TestJointPalette(t *testing.T) {
	if p := jointPalette(nil); len(p) != 1 || p[0] != mgl32.Ident4() {
		t.Errorf("static palette = %v", p)
	}
	joints := []mgl32.Mat4{mgl32.Translate3D(1, 0, 0), mgl32.Ident4()}
	if p := jointPalette(joints); len(p) != 2 || p[0] != joints[0] {
		t.Errorf("skinned palette = %v", p)
	}

	for n, want := range map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 24: 32, 64: 64} {
		if got := jointCapacity(n); got != want {
			t.Errorf("jointCapacity(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPreprocess(t *testing.T) {
	includes := map[string]string{"a": "struct A { x: f32, };"}

	out, err := preprocess("  //@oxy:include a\nfn main() {}", includes)
	if err != nil {
		t.Fatal(err)
	}
	if out != "struct A { x: f32, };\nfn main() {}\n" {
		t.Errorf("out = %q", out)
	}

	if _, err := preprocess("fn f() {}\n//@oxy:include missing", includes); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want unknown include on line 2", err)
	}
}

func TestShadersExpand(t *testing.T) {
	for name, src := range map[string]string{"forward": forwardShaderSource, "shadow": shadowShaderSource} {
		out, err := preprocess(src, shaderIncludes)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if strings.Contains(out, includePrefix) {
			t.Errorf("%s still has include lines", name)
		}
		for _, want := range []string{"struct SceneLight", "fn world_from_local"} {
			if !strings.Contains(out, want) {
				t.Errorf("%s is missing %q", name, want)
			}
		}
	}
}

func TestPickSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
		encode  bool
	}{
		{"prefers srgb", []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}, wgpu.TextureFormatBGRA8UnormSrgb, false},
		{"linear only", []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm}, wgpu.TextureFormatRGBA8Unorm, true},
		{"none", nil, wgpu.TextureFormatBGRA8Unorm, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, encode := pickSurfaceFormat(tt.formats)
			if got != tt.want || encode != tt.encode {
				t.Errorf("got %v/%v, want %v/%v", got, encode, tt.want, tt.encode)
			}
		})
	}
}

func testFrame() *render.Frame {
	cam := scene.NewCamera()
	world := mgl32.Translate3D(0, 5, 10)
	return &render.Frame{
		Camera: &render.CameraView{
			View:  world.Inv(),
			World: world,
			FovY:  cam.FovY,
			Near:  cam.Near,
			Far:   cam.Far,
		},
		Ambient:  light.NewAmbientLight(80),
		Exposure: light.Exposure(light.DefaultEV100),
	}
}

func TestSceneLightWithoutDirectionalLight(t *testing.T) {
	sl := sceneLight(testFrame(), 16.0/9.0, light.ShadowMapResolution)
	if sl.Illuminance != 0 || sl.ShadowsEnabled != 0 {
		t.Errorf("light = %+v, want ambient only", sl)
	}
	if sl.Ambient != [3]float32{80, 80, 80} {
		t.Errorf("ambient = %v", sl.Ambient)
	}
}

func TestSceneLightShadowResolution(t *testing.T) {
	f := testFrame()
	cascades, err := light.NewCascadeShadowConfigBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	f.Light = &render.LightView{
		Light:     light.NewDirectionalLight(light.WithShadows(true)),
		Direction: mgl32.Vec3{0.5, -1, 0.2}.Normalize(),
		Cascades:  cascades,
	}

	def := sceneLight(f, 1, light.ShadowMapResolution)
	half := sceneLight(f, 1, light.ShadowMapResolution/2)

	if def.ShadowsEnabled != 1 || def.Illuminance != light.DefaultIlluminance {
		t.Errorf("light = %+v", def)
	}
	if half.TexelSize[0] != 2*def.TexelSize[0] {
		t.Errorf("texel size = %v, want twice %v", half.TexelSize, def.TexelSize)
	}
	if half.NormalBias <= def.NormalBias {
		t.Errorf("normal bias %v should grow with texel size over %v", half.NormalBias, def.NormalBias)
	}
}
