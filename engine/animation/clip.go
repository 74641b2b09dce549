package animation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Interpolation identifies how a curve is evaluated between two keyframes.
type Interpolation int

const (
	// InterpolationLinear lerps vectors and slerps rotations.
	InterpolationLinear Interpolation = iota
	// InterpolationStep holds the previous keyframe value until the next keyframe.
	InterpolationStep
	// InterpolationCubicSpline evaluates a Hermite spline. Values are stored as
	// (in-tangent, value, out-tangent) triplets per keyframe.
	InterpolationCubicSpline
)

// Property identifies the node transform component a curve animates.
type Property int

const (
	PropertyTranslation Property = iota
	PropertyRotation
	PropertyScale
)

// Curve animates one property of one node.
// Vector properties use the first three components of each value; rotations use all four
// as (x, y, z, w).
type Curve struct {
	Node          int
	Property      Property
	Interpolation Interpolation
	Times         []float32
	Values        []mgl32.Vec4
}

// Clip is a named set of curves sharing one timeline.
type Clip struct {
	name     string
	duration float32
	curves   []Curve
}

// NewClip creates a clip. The duration is the latest keyframe time of any curve.
//
// Parameters:
//   - name: the clip name
//   - curves: the animation curves
//
// Returns:
//   - *Clip: the new clip
func NewClip(name string, curves []Curve) *Clip {
	c := &Clip{name: name, curves: curves}
	for _, cv := range curves {
		if n := len(cv.Times); n > 0 && cv.Times[n-1] > c.duration {
			c.duration = cv.Times[n-1]
		}
	}
	return c
}

// Name returns the clip name.
func (c *Clip) Name() string {
	return c.name
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float32 {
	return c.duration
}

// Curves returns the curves of the clip.
func (c *Clip) Curves() []Curve {
	return c.curves
}

// Sample evaluates every curve at time t and blends the result into pose with the given weight.
// A weight of 1 overwrites the animated nodes; curves targeting nodes outside the pose are ignored.
// Times outside the keyframe range clamp to the first or last keyframe.
//
// Parameters:
//   - t: the sample time in seconds
//   - weight: blend weight in [0, 1]
//   - pose: the pose to write into
func (c *Clip) Sample(t, weight float32, pose *Pose) {
	for i := range c.curves {
		cv := &c.curves[i]
		if cv.Node < 0 || cv.Node >= pose.Len() || len(cv.Times) == 0 {
			continue
		}
		v := cv.evaluate(t)
		switch cv.Property {
		case PropertyTranslation:
			pose.Translations[cv.Node] = lerp3(pose.Translations[cv.Node], v.Vec3(), weight)
		case PropertyScale:
			pose.Scales[cv.Node] = lerp3(pose.Scales[cv.Node], v.Vec3(), weight)
		case PropertyRotation:
			q := mgl32.Quat{W: v[3], V: v.Vec3()}.Normalize()
			if weight >= 1 {
				pose.Rotations[cv.Node] = q
			} else {
				pose.Rotations[cv.Node] = slerp(pose.Rotations[cv.Node], q, weight)
			}
		}
	}
}

// evaluate returns the curve value at time t.
func (cv *Curve) evaluate(t float32) mgl32.Vec4 {
	n := len(cv.Times)
	cubic := cv.Interpolation == InterpolationCubicSpline

	value := func(i int) mgl32.Vec4 {
		if cubic {
			return cv.Values[i*3+1]
		}
		return cv.Values[i]
	}

	if n == 1 || t <= cv.Times[0] {
		return value(0)
	}
	if t >= cv.Times[n-1] {
		return value(n - 1)
	}

	// first keyframe strictly after t
	next := sort.Search(n, func(i int) bool { return cv.Times[i] > t })
	prev := next - 1
	t0, t1 := cv.Times[prev], cv.Times[next]
	dt := t1 - t0
	if dt <= 0 {
		return value(prev)
	}
	s := (t - t0) / dt

	switch cv.Interpolation {
	case InterpolationStep:
		return value(prev)
	case InterpolationCubicSpline:
		p0, m0 := cv.Values[prev*3+1], cv.Values[prev*3+2].Mul(dt)
		p1, m1 := cv.Values[next*3+1], cv.Values[next*3].Mul(dt)
		return hermite(p0, m0, p1, m1, s)
	default:
		a, b := value(prev), value(next)
		if cv.Property == PropertyRotation {
			qa := mgl32.Quat{W: a[3], V: a.Vec3()}
			qb := mgl32.Quat{W: b[3], V: b.Vec3()}
			q := slerp(qa, qb, s)
			return q.V.Vec4(q.W)
		}
		return a.Add(b.Sub(a).Mul(s))
	}
}

func hermite(p0, m0, p1, m1 mgl32.Vec4, s float32) mgl32.Vec4 {
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return p0.Mul(h00).Add(m0.Mul(h10)).Add(p1.Mul(h01)).Add(m1.Mul(h11))
}

func lerp3(a, b mgl32.Vec3, w float32) mgl32.Vec3 {
	if w >= 1 {
		return b
	}
	return a.Add(b.Sub(a).Mul(w))
}

// slerp interpolates along the shortest arc.
func slerp(a, b mgl32.Quat, w float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, w).Normalize()
}
