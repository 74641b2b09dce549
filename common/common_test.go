package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestKeyFromCode(t *testing.T) {
	tests := []struct {
		code string
		want uint32
		ok   bool
	}{
		{"Space", KeySpace, true},
		{"Enter", KeyEnter, true},
		{"ArrowUp", KeyUp, true},
		{"ArrowDown", KeyDown, true},
		{"ArrowLeft", KeyLeft, true},
		{"ArrowRight", KeyRight, true},
		{"Digit1", Key1, true},
		{"Digit5", Key5, true},
		{"KeyL", KeyL, true},
		{"ShiftLeft", 0, false},
		{"Digit", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := KeyFromCode(tt.code)
			if ok != tt.ok || got != tt.want {
				t.Errorf("KeyFromCode(%q) = %d, %v; want %d, %v", tt.code, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	p := Perspective(math.Pi/4, 1, near, far)

	for _, tc := range []struct {
		z    float32
		want float32
	}{{-near, 0}, {-far, 1}} {
		clip := p.Mul4x1(mgl32.Vec4{0, 0, tc.z, 1})
		if got := clip[2] / clip[3]; math.Abs(float64(got-tc.want)) > 1e-4 {
			t.Errorf("depth at z=%v = %v, want %v", tc.z, got, tc.want)
		}
	}
}

func TestEulerZYXSingleAxis(t *testing.T) {
	q := EulerZYX(0, math.Pi/2, 0)
	v := q.Rotate(mgl32.Vec3{1, 0, 0})
	want := mgl32.Vec3{0, 0, -1}
	for i := range want {
		// absolute tolerance: ApproxEqualThreshold is relative and too strict near zero
		if math.Abs(float64(v[i]-want[i])) > 1e-5 {
			t.Errorf("rotating +X by 90deg about Y = %v, want %v", v, want)
			break
		}
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "b", "c"); got != "b" {
		t.Errorf("Coalesce = %q, want %q", got, "b")
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce = %d, want 0", got)
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes([]float32{}) != nil {
		t.Error("expected nil for empty slice")
	}
	if got := len(SliceToBytes([]mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()})); got != 128 {
		t.Errorf("len = %d, want 128", got)
	}
}
