package scenes

import (
	"fmt"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

// Bernoulli places a row of touching spheres across the launch direction.
func Bernoulli(integ dynamo.Integrator, p Params) (*Scene, error) {
	n := orDefault(p.Spheres, 4)
	if n < 1 {
		return nil, fmt.Errorf("%w: bernoulli needs at least one sphere", dynamo.ErrParameterBounds)
	}

	s := newArena("bernoulli", integ, p)
	s.cueBall(dynamo.V(0, -3, 1), p.Launch)

	pos := dynamo.V(float64(1-n), 3, 1)
	for i := 1; i <= n; i++ {
		s.track(unitSphere(fmt.Sprintf("sphere_%d", i), pos))
		pos = pos.Add(dynamo.V(2, 0, 0))
	}
	return s, nil
}
