// Package dynamo provides core primitives shared by the host engine and the
// telemetry recorder.
//
// The package defines the fundamental types for rigid-body simulation:
//
//   - [Vec3], [Quat]: position and orientation math
//   - [Shape]: tagged collision shape ([Sphere], [Box], [Capsule])
//   - [Body]: read-only per-tick view of a tracked body
//   - [State], [System], [Integrator]: ODE integration primitives
//
// # Quaternion order
//
// [Quat] stores the scalar first. The row log writes components as
// (x, y, z, w) via [Quat.XYZW]; the frame document writes (w, x, y, z) via
// [Quat.WXYZ].
//
// # Thread Safety
//
// Values are immutable; [Body] implementations are not safe for concurrent
// mutation and are only read on the simulation thread.
package dynamo
