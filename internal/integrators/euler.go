package integrators

import "github.com/san-kum/rigidlog/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// ByName returns the integrator registered under name.
func ByName(name string) (dynamo.Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "rk4", "":
		return NewRK4(), true
	default:
		return nil, false
	}
}
