package physics

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

// TickFunc is called once per simulation step. A returned error stops
// the run.
type TickFunc func(w *World, dt float64) error

type Config struct {
	Dt       float64
	Duration float64
}

type World struct {
	Gravity dynamo.Vec3

	bodies     []*RigidBody
	integrator dynamo.Integrator

	tick     TickFunc
	userInfo any
	preTick  bool

	time  float64
	steps int
}

func NewWorld(integrator dynamo.Integrator) *World {
	return &World{
		integrator: integrator,
		bodies:     make([]*RigidBody, 0),
	}
}

func (w *World) AddBody(b *RigidBody) *RigidBody {
	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) Bodies() []*RigidBody { return w.bodies }

// SetTickCallback registers fn with userInfo. With preTick set, fn runs
// before integration of each step, otherwise after it.
func (w *World) SetTickCallback(fn TickFunc, userInfo any, preTick bool) {
	w.tick = fn
	w.userInfo = userInfo
	w.preTick = preTick
}

func (w *World) UserInfo() any { return w.userInfo }

func (w *World) Time() float64 { return w.time }

func (w *World) Steps() int { return w.steps }

// Step advances the world by dt.
func (w *World) Step(dt float64) error {
	if w.tick != nil && w.preTick {
		if err := w.tick(w, dt); err != nil {
			return err
		}
	}

	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		w.integrate(b, dt)
	}

	w.resolveContacts()

	for _, b := range w.bodies {
		if !b.isValid() {
			return &dynamo.SimulationError{Step: w.steps, Time: w.time, Body: b.name, Wrapped: dynamo.ErrInvalidState}
		}
	}

	w.time += dt
	w.steps++

	if w.tick != nil && !w.preTick {
		if err := w.tick(w, dt); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) integrate(b *RigidBody, dt float64) {
	motion := &linearMotion{gravity: w.Gravity, damping: b.linearDamping}
	b.setLinearState(w.integrator.Step(motion, b.linearState(), w.time, dt))

	if b.angularDamping > 0 {
		b.omega = b.omega.Scale(math.Max(0, 1-b.angularDamping*dt))
	}
	if b.omega != (dynamo.Vec3{}) {
		b.rot = b.rot.Integrate(b.omega, dt)
	}
}

// Run steps the world for cfg.Duration, stopping early on a step error or
// context cancellation.
func (w *World) Run(ctx context.Context, cfg Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if err := w.Step(cfg.Dt); err != nil {
			return err
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	return nil
}
