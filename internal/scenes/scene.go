package scenes

import (
	"math"

	"github.com/san-kum/rigidlog/internal/dynamo"
	"github.com/san-kum/rigidlog/internal/physics"
	"github.com/san-kum/rigidlog/internal/telemetry"
)

var sqrt3 = math.Sqrt(3)

// Params tune a scene's placement. Zero counts select the scene default.
type Params struct {
	Launch  dynamo.Vec3
	Gravity dynamo.Vec3
	Spheres int
	Layers  int
}

// Scene is a populated world plus the bodies whose state is recorded.
type Scene struct {
	Name    string
	World   *physics.World
	Tracked []*physics.RigidBody

	session  *telemetry.Session
	progress func(Progress)
}

// Progress is a copy of the tracked state taken right after a tick was
// recorded. It is safe to hand to another goroutine.
type Progress struct {
	Step   int
	Time   float64
	Bodies []BodyState
}

type BodyState struct {
	Name     string
	Position dynamo.Vec3
	Velocity dynamo.Vec3
	Shape    dynamo.Shape
	Static   bool
}

// Bodies returns the tracked bodies in registration order.
func (s *Scene) Bodies() []dynamo.Body {
	out := make([]dynamo.Body, len(s.Tracked))
	for i, b := range s.Tracked {
		out[i] = b
	}
	return out
}

// Attach routes every world tick into session. The scene is recovered from
// the world's user info on each tick.
func (s *Scene) Attach(session *telemetry.Session) {
	s.session = session
	s.World.SetTickCallback(onTick, s, true)
}

// OnProgress registers fn to be called after each recorded tick.
func (s *Scene) OnProgress(fn func(Progress)) {
	s.progress = fn
}

func onTick(w *physics.World, dt float64) error {
	s, ok := w.UserInfo().(*Scene)
	if !ok || s.session == nil {
		return nil
	}
	if err := s.session.Tick(); err != nil {
		return err
	}
	if s.progress != nil {
		s.progress(s.snapshot(w.Steps()+1, w.Time()))
	}
	return nil
}

func (s *Scene) snapshot(step int, t float64) Progress {
	p := Progress{Step: step, Time: t, Bodies: make([]BodyState, len(s.Tracked))}
	for i, b := range s.Tracked {
		p.Bodies[i] = BodyState{
			Name:     b.Name(),
			Position: b.Position(),
			Velocity: b.LinearVelocity(),
			Shape:    b.Shape(),
			Static:   b.IsStatic(),
		}
	}
	return p
}

func (s *Scene) track(b *physics.RigidBody) *physics.RigidBody {
	s.World.AddBody(b)
	s.Tracked = append(s.Tracked, b)
	return b
}

// newArena creates a frictionless, perfectly elastic world with a large
// static ground box below z = 0.
func newArena(name string, integ dynamo.Integrator, p Params) *Scene {
	w := physics.NewWorld(integ)
	w.Gravity = p.Gravity

	ground := physics.NewRigidBody("ground", 0, dynamo.Box{HalfExtents: dynamo.V(100, 100, 100)}, dynamo.V(0, 0, -100))
	ground.SetRestitution(1)
	w.AddBody(ground)

	return &Scene{Name: name, World: w}
}

func unitSphere(name string, pos dynamo.Vec3) *physics.RigidBody {
	b := physics.NewRigidBody(name, 1, dynamo.Sphere{Radius: 1}, pos)
	b.SetRestitution(1)
	b.SetDamping(0, 0)
	return b
}

func staticBox(name string, half, pos dynamo.Vec3) *physics.RigidBody {
	b := physics.NewRigidBody(name, 0, dynamo.Box{HalfExtents: half}, pos)
	b.SetRestitution(1)
	return b
}

// cueBall is the launched sphere every scene starts with.
func (s *Scene) cueBall(pos, velocity dynamo.Vec3) {
	s.track(unitSphere("init_velocity_sphere", pos)).SetLinearVelocity(velocity)
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
