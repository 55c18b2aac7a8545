package physics

import (
	"math"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

const (
	contactSlop   = 1e-9
	correctionPct = 1.0
)

func (w *World) resolveContacts() {
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if a.IsStatic() && b.IsStatic() {
				continue
			}
			collide(a, b)
		}
	}
}

func collide(a, b *RigidBody) {
	ra, aSphere := a.radius()
	rb, bSphere := b.radius()

	switch {
	case aSphere && bSphere:
		sphereSphere(a, ra, b, rb)
	case aSphere:
		if box, ok := b.shape.(dynamo.Box); ok && b.IsStatic() {
			sphereStaticBox(a, ra, b, box)
		}
	case bSphere:
		if box, ok := a.shape.(dynamo.Box); ok && a.IsStatic() {
			sphereStaticBox(b, rb, a, box)
		}
	}
}

// restitution combines like the reference engines do: product of both.
func restitution(a, b *RigidBody) float64 {
	return a.restitution * b.restitution
}

func sphereSphere(a *RigidBody, ra float64, b *RigidBody, rb float64) {
	delta := b.pos.Sub(a.pos)
	dist := delta.Len()
	depth := ra + rb - dist
	if depth <= contactSlop || dist == 0 {
		return
	}

	n := delta.Scale(1 / dist)
	invSum := a.invMass + b.invMass
	if invSum == 0 {
		return
	}

	vrel := b.vel.Sub(a.vel).Dot(n)
	if vrel < 0 {
		j := -(1 + restitution(a, b)) * vrel / invSum
		a.vel = a.vel.Sub(n.Scale(j * a.invMass))
		b.vel = b.vel.Add(n.Scale(j * b.invMass))
	}

	corr := n.Scale(correctionPct * depth / invSum)
	a.pos = a.pos.Sub(corr.Scale(a.invMass))
	b.pos = b.pos.Add(corr.Scale(b.invMass))
}

func sphereStaticBox(s *RigidBody, r float64, box *RigidBody, shape dynamo.Box) {
	h := shape.HalfExtents
	local := s.pos.Sub(box.pos)

	closest := dynamo.V(
		clamp(local.X, -h.X, h.X),
		clamp(local.Y, -h.Y, h.Y),
		clamp(local.Z, -h.Z, h.Z),
	)
	delta := local.Sub(closest)
	dist := delta.Len()

	var n dynamo.Vec3
	var depth float64
	if dist > 0 {
		depth = r - dist
		n = delta.Scale(1 / dist)
	} else {
		// centre inside the box: leave through the nearest face
		n, depth = nearestFace(local, h)
		depth += r
	}
	if depth <= contactSlop {
		return
	}

	if vn := s.vel.Dot(n); vn < 0 {
		s.vel = s.vel.Sub(n.Scale((1 + restitution(s, box)) * vn))
	}
	s.pos = s.pos.Add(n.Scale(depth))
}

func nearestFace(p, h dynamo.Vec3) (dynamo.Vec3, float64) {
	faces := [3]struct {
		gap float64
		dir dynamo.Vec3
	}{
		{h.X - math.Abs(p.X), dynamo.V(sign(p.X), 0, 0)},
		{h.Y - math.Abs(p.Y), dynamo.V(0, sign(p.Y), 0)},
		{h.Z - math.Abs(p.Z), dynamo.V(0, 0, sign(p.Z))},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.gap < best.gap {
			best = f
		}
	}
	return best.dir, best.gap
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
