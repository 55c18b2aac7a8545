// Package physics is a small rigid-body engine used to drive the demo
// scenes.
//
// A [World] holds [RigidBody] values and advances them with a
// [dynamo.Integrator]:
//
//   - linear motion under gravity and damping is integrated as a
//     [dynamo.System] (RK4 by default)
//   - orientation follows the angular velocity
//   - sphere/sphere and sphere/static-box contacts are resolved with
//     restitution impulses
//
// A tick callback registered with [World.SetTickCallback] runs once per
// step, before or after integration, with the user info given at
// registration. Boxes are treated as axis aligned.
//
//	w := physics.NewWorld(integrators.NewRK4())
//	w.SetTickCallback(onTick, scene, true)
//	err := w.Run(ctx, physics.Config{Dt: 1.0 / 240, Duration: 5})
package physics
