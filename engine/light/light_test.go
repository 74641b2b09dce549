package light

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCascadeBounds(t *testing.T) {
	b := NewCascadeShadowConfigBuilder()
	b.FirstCascadeFarBound = 200
	b.MaximumDistance = 400
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []float32{200, 251.984, 317.480, 400}
	if cfg.Len() != len(want) {
		t.Fatalf("cascades = %d, want %d", cfg.Len(), len(want))
	}
	for i, w := range want {
		if !mgl32.FloatEqualThreshold(cfg.Far(i), w, 1e-2) {
			t.Errorf("far(%d) = %v, want %v", i, cfg.Far(i), w)
		}
	}
	if cfg.Near(0) != 0.1 {
		t.Errorf("near(0) = %v, want 0.1", cfg.Near(0))
	}
	if !mgl32.FloatEqualThreshold(cfg.Near(1), 160, 1e-3) {
		t.Errorf("near(1) = %v, want 160", cfg.Near(1))
	}
}

func TestCascadeSingle(t *testing.T) {
	b := NewCascadeShadowConfigBuilder()
	b.NumCascades = 1
	b.MinimumDistance = 10
	b.FirstCascadeFarBound = 5
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Len() != 1 || cfg.Far(0) != 1000 {
		t.Errorf("bounds = %v, want [1000]", cfg.Bounds)
	}
}

func TestCascadeValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CascadeShadowConfigBuilder)
	}{
		{"zero cascades", func(b *CascadeShadowConfigBuilder) { b.NumCascades = 0 }},
		{"negative minimum", func(b *CascadeShadowConfigBuilder) { b.MinimumDistance = -1 }},
		{"minimum past first bound", func(b *CascadeShadowConfigBuilder) { b.MinimumDistance = 5 }},
		{"maximum below minimum", func(b *CascadeShadowConfigBuilder) { b.MaximumDistance = 0.01 }},
		{"first bound past maximum", func(b *CascadeShadowConfigBuilder) { b.FirstCascadeFarBound = 2000 }},
		{"overlap one", func(b *CascadeShadowConfigBuilder) { b.Overlap = 1 }},
		{"negative overlap", func(b *CascadeShadowConfigBuilder) { b.Overlap = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCascadeShadowConfigBuilder()
			tt.modify(&b)
			if _, err := b.Build(); !errors.Is(err, ErrInvalidCascadeConfig) {
				t.Errorf("Build error = %v, want ErrInvalidCascadeConfig", err)
			}
		})
	}
}

func TestFitCascadeContainsSlice(t *testing.T) {
	cameraWorld := mgl32.LookAtV(mgl32.Vec3{100, 100, 150}, mgl32.Vec3{0, 20, 0}, mgl32.Vec3{0, 1, 0}).Inv()
	dir := mgl32.Vec3{1, -2, 0.5}.Normalize()
	fovY, aspect := float32(math.Pi/4), float32(16.0/9.0)
	fit := FitCascade(dir, cameraWorld, fovY, aspect, 0.1, 200)

	tanHalf := float32(math.Tan(float64(fovY) / 2))
	for _, z := range []float32{0.1, 50, 200} {
		h := z * tanHalf
		w := h * aspect
		for _, xy := range [][2]float32{{-w, -h}, {w, h}, {0, 0}} {
			world := cameraWorld.Mul4x1(mgl32.Vec4{xy[0], xy[1], -z, 1})
			clip := fit.ViewProj.Mul4x1(world)
			ndc := clip.Vec3().Mul(1 / clip.W())
			if ndc.X() < -1.0001 || ndc.X() > 1.0001 || ndc.Y() < -1.0001 || ndc.Y() > 1.0001 ||
				ndc.Z() < 0 || ndc.Z() > 1 {
				t.Errorf("point at depth %v %v maps to %v, outside clip volume", z, xy, ndc)
			}
		}
	}
	if fit.TexelWorldSize(ShadowMapResolution) <= 0 {
		t.Error("texel size must be positive")
	}
}

func TestFitCascadeVerticalLight(t *testing.T) {
	fit := FitCascade(mgl32.Vec3{0, -1, 0}, mgl32.Ident4(), math.Pi/4, 1, 1, 10)
	for _, v := range fit.ViewProj {
		if math.IsNaN(float64(v)) {
			t.Fatalf("view projection contains NaN: %v", fit.ViewProj)
		}
	}
}

func TestDirectionAndExposure(t *testing.T) {
	if d := Direction(mgl32.QuatIdent()); !d.ApproxEqual(mgl32.Vec3{0, 0, -1}) {
		t.Errorf("identity direction = %v", d)
	}
	want := 1 / (1.2 * math.Pow(2, 9.7))
	if got := Exposure(DefaultEV100); math.Abs(float64(got)-want) > 1e-9 {
		t.Errorf("Exposure = %v, want %v", got, want)
	}
}

func TestDirectionalLightOptions(t *testing.T) {
	l := NewDirectionalLight(WithColor(0.2, 0.6, 0.4), WithShadows(true))
	if l.Color != (mgl32.Vec3{0.2, 0.6, 0.4}) || !l.ShadowsEnabled || l.Illuminance != DefaultIlluminance {
		t.Errorf("light = %+v", l)
	}
}

func TestGPUSceneLightMarshal(t *testing.T) {
	l := NewDirectionalLight(WithShadows(true))
	fit := CascadeFit{ViewProj: mgl32.Ident4(), Radius: 1024}
	g := NewGPUSceneLight(l, mgl32.Vec3{0, -1, 0}, fit, NewAmbientLight(2000), 1)

	if g.Size() != 128 {
		t.Errorf("Size = %d, want 128", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 128 {
		t.Fatalf("len = %d, want 128", len(buf))
	}
	if f := math.Float32frombits(leU32(buf[96:])); f != 2000 {
		t.Errorf("ambient.r = %v, want 2000", f)
	}
	if u := leU32(buf[108:]); u != 1 {
		t.Errorf("shadows_enabled = %d, want 1", u)
	}
	// one texel is 1 world unit at radius 1024 and resolution 2048
	if f := math.Float32frombits(leU32(buf[124:])); f != DefaultShadowNormalBiasScale {
		t.Errorf("normal_bias = %v, want %v", f, DefaultShadowNormalBiasScale)
	}
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
