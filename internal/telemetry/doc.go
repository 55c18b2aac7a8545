// Package telemetry records per-tick rigid-body state for offline analysis.
//
// Two recorders share one tick trigger:
//
//   - [RowRecorder] streams one CSV row per tick to a versioned
//     <prefix>_<N>.csv file, created lazily on the first capture.
//   - [DocumentRecorder] accumulates static object metadata and a per-tick
//     pose timeline in memory and writes <prefix>.json once at teardown.
//
// [Session] composes both over a fixed body set and [Run] guarantees the
// session is closed on every exit path.
//
// # Formats
//
// Row log quaternions are written (x, y, z, w); document quaternions are
// written (w, x, y, z). Row logs are versioned per run, the document is not
// and is overwritten by the next run with the same prefix.
//
// # Thread Safety
//
// Recorders are single-writer and must only be driven from the simulation
// thread.
package telemetry
