package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Array() [3]float64    { return [3]float64{v.X, v.Y, v.Z} }
func (v Vec3) String() string       { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }
func (v Vec3) IsValid() bool        { return State{v.X, v.Y, v.Z}.IsValid() }

// Quat is a rotation quaternion with scalar part W.
type Quat struct {
	W, X, Y, Z float64
}

func Identity() Quat { return Quat{W: 1} }

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return Identity()
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Integrate advances q by angular velocity omega (world frame) over dt.
func (q Quat) Integrate(omega Vec3, dt float64) Quat {
	w := Quat{0, omega.X, omega.Y, omega.Z}
	dq := w.Mul(q)
	return Quat{
		W: q.W + 0.5*dt*dq.W,
		X: q.X + 0.5*dt*dq.X,
		Y: q.Y + 0.5*dt*dq.Y,
		Z: q.Z + 0.5*dt*dq.Z,
	}.Normalize()
}

// XYZW is the component order used by the row log.
func (q Quat) XYZW() [4]float64 { return [4]float64{q.X, q.Y, q.Z, q.W} }

// WXYZ is the component order used by the frame document.
func (q Quat) WXYZ() [4]float64 { return [4]float64{q.W, q.X, q.Y, q.Z} }

type ShapeKind int

const (
	KindOther ShapeKind = iota
	KindSphere
	KindBox
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	default:
		return "other"
	}
}

// Shape describes the collision geometry of a body.
type Shape interface {
	Kind() ShapeKind
}

type Sphere struct {
	Radius float64
}

func (Sphere) Kind() ShapeKind { return KindSphere }

// Box stores half extents, margin included.
type Box struct {
	HalfExtents Vec3
}

func (Box) Kind() ShapeKind { return KindBox }

type Capsule struct {
	Radius     float64
	HalfHeight float64
}

func (Capsule) Kind() ShapeKind { return KindOther }

// Body is the read-only view of a simulated rigid body.
type Body interface {
	Name() string
	Position() Vec3
	Orientation() Quat
	LinearVelocity() Vec3
	AngularVelocity() Vec3
	Shape() Shape
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
