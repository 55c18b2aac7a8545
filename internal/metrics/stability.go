package metrics

import "github.com/san-kum/rigidlog/internal/dynamo"

// Stability is the fraction of ticks in which every body stays at or below
// the speed threshold. A zero threshold disables the check.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(v []dynamo.Vec3, t float64) {
	s.samples++
	if s.threshold <= 0 {
		return
	}
	for _, vi := range v {
		if vi.Len() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
