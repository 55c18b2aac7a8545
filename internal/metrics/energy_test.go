package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

func TestEnergyAverage(t *testing.T) {
	m := NewEnergy()

	m.Observe([]dynamo.Vec3{dynamo.V(2, 0, 0)}, 0)
	m.Observe([]dynamo.Vec3{dynamo.V(0, 0, 0), dynamo.V(0, 4, 0)}, 0.1)

	expected := (2.0 + 8.0) / 2
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe([]dynamo.Vec3{dynamo.V(1, 1, 0)}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftElasticSwap(t *testing.T) {
	m := NewEnergyDrift()

	// head-on elastic collision of equal masses exchanges velocities
	m.Observe([]dynamo.Vec3{dynamo.V(0, 5, 0), dynamo.V(0, 0, 0)}, 0)
	m.Observe([]dynamo.Vec3{dynamo.V(0, 0, 0), dynamo.V(0, 5, 0)}, 0.1)
	if m.Value() != 0 {
		t.Errorf("expected zero drift, got %f", m.Value())
	}

	m.Observe([]dynamo.Vec3{dynamo.V(0, 0, 0), dynamo.V(0, 2.5, 0)}, 0.2)
	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected drift 0.75, got %f", m.Value())
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()

	m.Observe([]dynamo.Vec3{dynamo.V(1, 0, 0), dynamo.V(-1, 0, 0)}, 0)
	m.Observe([]dynamo.Vec3{dynamo.V(3, 0, 0), dynamo.V(-3, 0, 0)}, 0.1)
	if m.Value() != 0 {
		t.Errorf("expected zero drift, got %f", m.Value())
	}

	m.Observe([]dynamo.Vec3{dynamo.V(3, 4, 0), dynamo.V(-3, 0, 0)}, 0.2)
	if m.Value() != 4 {
		t.Errorf("expected drift 4, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(5)
	m.Observe([]dynamo.Vec3{dynamo.V(0, 5, 0)}, 0)
	m.Observe([]dynamo.Vec3{dynamo.V(0, 6, 0), dynamo.V(0, 7, 0)}, 0.1)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	if NewStability(0).Value() != 1 {
		t.Error("expected 1 with no samples")
	}
}

func TestStandardNames(t *testing.T) {
	want := []string{"energy", "energy_drift", "momentum_drift", "stability"}
	ms := Standard(10)
	for i, m := range ms {
		if m.Name() != want[i] {
			t.Errorf("metric %d: expected %s, got %s", i, want[i], m.Name())
		}
	}

	ObserveAll(ms, []dynamo.Vec3{dynamo.V(1, 0, 0)}, 0)
	if ms[0].Value() != 0.5 {
		t.Errorf("expected energy 0.5, got %f", ms[0].Value())
	}
}
