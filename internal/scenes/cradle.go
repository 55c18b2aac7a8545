package scenes

import (
	"fmt"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

// Cradle lines spheres up along the launch direction, touching.
func Cradle(integ dynamo.Integrator, p Params) (*Scene, error) {
	n := orDefault(p.Spheres, 4)
	if n < 1 {
		return nil, fmt.Errorf("%w: cradle needs at least one sphere", dynamo.ErrParameterBounds)
	}

	s := newArena("cradle", integ, p)
	s.cueBall(dynamo.V(0, -3, 1), p.Launch)

	for i := 1; i <= n; i++ {
		s.track(unitSphere(fmt.Sprintf("sphere%d", i), dynamo.V(0, 1+2*float64(i), 1)))
	}
	return s, nil
}
