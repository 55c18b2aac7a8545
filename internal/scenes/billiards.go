package scenes

import (
	"fmt"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

// Billiards racks a triangle of spheres in front of the cue ball.
func Billiards(integ dynamo.Integrator, p Params) (*Scene, error) {
	layers := orDefault(p.Layers, 3)
	if layers < 1 {
		return nil, fmt.Errorf("%w: billiards needs at least one layer", dynamo.ErrParameterBounds)
	}

	s := newArena("billiards", integ, p)
	s.cueBall(dynamo.V(0, -3, 1), p.Launch)

	index := 1
	for i := 0; i < layers; i++ {
		left := dynamo.V(float64(i), 3+float64(i)*sqrt3, 1)
		for j := 0; j <= i; j++ {
			pos := left.Add(dynamo.V(-2*float64(j), 0, 0))
			s.track(unitSphere(fmt.Sprintf("sphere_%d", index), pos))
			index++
		}
	}
	return s, nil
}
