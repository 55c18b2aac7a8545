// Package metrics computes scalar summaries over recorded body velocities.
// Every body is taken to have unit mass, which matches the demo scenes.
package metrics

import "github.com/san-kum/rigidlog/internal/dynamo"

// Metric accumulates one value over a sequence of ticks. v holds the linear
// velocity of every tracked body at time t.
type Metric interface {
	Name() string
	Observe(v []dynamo.Vec3, t float64)
	Value() float64
	Reset()
}

// Standard returns the metrics reported by the stats command.
func Standard(speedLimit float64) []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewStability(speedLimit),
	}
}

// ObserveAll feeds one tick to every metric.
func ObserveAll(ms []Metric, v []dynamo.Vec3, t float64) {
	for _, m := range ms {
		m.Observe(v, t)
	}
}
