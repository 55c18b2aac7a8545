package metrics

import (
	"math"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

// Momentum is the total linear momentum of unit-mass bodies.
func Momentum(v []dynamo.Vec3) dynamo.Vec3 {
	var p dynamo.Vec3
	for _, vi := range v {
		p = p.Add(vi)
	}
	return p
}

// MomentumDrift is the largest distance of total momentum from its first
// observed value.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string {
	return m.name
}

func (m *MomentumDrift) Observe(v []dynamo.Vec3, t float64) {
	p := Momentum(v)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
