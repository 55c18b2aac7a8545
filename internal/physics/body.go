package physics

import (
	"github.com/san-kum/rigidlog/internal/dynamo"
)

// RigidBody is a body simulated by [World]. A zero mass makes it static.
type RigidBody struct {
	name    string
	shape   dynamo.Shape
	mass    float64
	invMass float64

	pos   dynamo.Vec3
	rot   dynamo.Quat
	vel   dynamo.Vec3
	omega dynamo.Vec3

	restitution    float64
	linearDamping  float64
	angularDamping float64
}

var _ dynamo.Body = (*RigidBody)(nil)

func NewRigidBody(name string, mass float64, shape dynamo.Shape, pos dynamo.Vec3) *RigidBody {
	b := &RigidBody{
		name:  name,
		shape: shape,
		mass:  mass,
		pos:   pos,
		rot:   dynamo.Identity(),
	}
	if mass > 0 {
		b.invMass = 1 / mass
	}
	return b
}

func (b *RigidBody) Name() string                 { return b.name }
func (b *RigidBody) Position() dynamo.Vec3        { return b.pos }
func (b *RigidBody) Orientation() dynamo.Quat     { return b.rot }
func (b *RigidBody) LinearVelocity() dynamo.Vec3  { return b.vel }
func (b *RigidBody) AngularVelocity() dynamo.Vec3 { return b.omega }
func (b *RigidBody) Shape() dynamo.Shape          { return b.shape }
func (b *RigidBody) Mass() float64                { return b.mass }
func (b *RigidBody) IsStatic() bool               { return b.invMass == 0 }
func (b *RigidBody) Restitution() float64         { return b.restitution }

func (b *RigidBody) SetName(name string)                { b.name = name }
func (b *RigidBody) SetPosition(p dynamo.Vec3)          { b.pos = p }
func (b *RigidBody) SetOrientation(q dynamo.Quat)       { b.rot = q.Normalize() }
func (b *RigidBody) SetLinearVelocity(v dynamo.Vec3)    { b.vel = v }
func (b *RigidBody) SetAngularVelocity(w dynamo.Vec3)   { b.omega = w }
func (b *RigidBody) SetRestitution(e float64)           { b.restitution = e }
func (b *RigidBody) SetDamping(linear, angular float64) { b.linearDamping, b.angularDamping = linear, angular }

func (b *RigidBody) radius() (float64, bool) {
	s, ok := b.shape.(dynamo.Sphere)
	return s.Radius, ok
}

func (b *RigidBody) isValid() bool {
	return b.pos.IsValid() && b.vel.IsValid() && b.omega.IsValid() &&
		dynamo.State{b.rot.W, b.rot.X, b.rot.Y, b.rot.Z}.IsValid()
}

// linearMotion is dX/dt for X = [p, v] under constant gravity and
// velocity damping.
type linearMotion struct {
	gravity dynamo.Vec3
	damping float64
}

func (m *linearMotion) StateDim() int { return 6 }

func (m *linearMotion) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{
		x[3], x[4], x[5],
		m.gravity.X - m.damping*x[3],
		m.gravity.Y - m.damping*x[4],
		m.gravity.Z - m.damping*x[5],
	}
}

func (b *RigidBody) linearState() dynamo.State {
	return dynamo.State{b.pos.X, b.pos.Y, b.pos.Z, b.vel.X, b.vel.Y, b.vel.Z}
}

func (b *RigidBody) setLinearState(x dynamo.State) {
	b.pos = dynamo.V(x[0], x[1], x[2])
	b.vel = dynamo.V(x[3], x[4], x[5])
}
