package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

type ballistic struct{ g float64 }

func (b *ballistic) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], b.g}
}

func (b *ballistic) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4ConstantAcceleration(t *testing.T) {
	dyn := &ballistic{g: -9.81}
	integ := NewRK4()

	x := dynamo.State{0, 5}
	dt := 0.1
	for i := 0; i < 10; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	// exact for quadratic trajectories
	want := 5*1.0 - 0.5*9.81*1.0
	if math.Abs(x[0]-want) > 1e-9 {
		t.Errorf("position: got %.9f, want %.9f", x[0], want)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	dyn := &ballistic{g: 0}
	x := NewEuler().Step(dyn, dynamo.State{1, 2}, 0, 0.5)
	if x[0] != 2 || x[1] != 2 {
		t.Errorf("expected [2 2], got %v", x)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"rk4", "euler", ""} {
		if _, ok := ByName(name); !ok {
			t.Errorf("expected integrator for %q", name)
		}
	}
	if _, ok := ByName("leapfrog"); ok {
		t.Error("expected unknown integrator to be rejected")
	}
}
