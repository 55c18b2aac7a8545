package scenes

import (
	"fmt"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

// geyserRows is the sphere count of each row below the centre.
var geyserRows = [...]int{4, 3, 4, 3, 2}

// Geyser fires the cue ball up into a packed column of spheres wedged
// between two static boxes.
func Geyser(integ dynamo.Integrator, p Params) (*Scene, error) {
	layers := orDefault(p.Layers, 7)
	if layers < 1 || layers%2 == 0 {
		return nil, fmt.Errorf("%w: geyser layers must be odd, got %d", dynamo.ErrParameterBounds, layers)
	}

	centre := dynamo.V(-5, 20, 1)
	leftBox := dynamo.V(-20, 10, 1)
	rightBox := dynamo.V(10, 10, 1)

	s := newArena("geyser", integ, p)
	s.cueBall(dynamo.V(centre.X, centre.Y-14, 1), p.Launch)

	index := 1
	for i, count := range geyserRows {
		left := dynamo.V(centre.X-float64(count)+1, centre.Y-float64(i)*sqrt3, 1)
		for j := 0; j < count; j++ {
			pos := left.Add(dynamo.V(2*float64(j), 0, 0))
			s.track(unitSphere(fmt.Sprintf("sphere_%d", index), pos))
			index++
		}
	}

	for i := 1; i <= layers; i++ {
		left := dynamo.V(centre.X-float64(layers-i), centre.Y+float64(i)*sqrt3, 1)
		for j := 0; j <= layers-i; j++ {
			pos := left.Add(dynamo.V(2*float64(j), 0, 0))
			s.track(unitSphere(fmt.Sprintf("sphere_%d", index), pos))
			index++
		}
	}

	hy := centre.Y - leftBox.Y + sqrt3 - 1
	s.track(staticBox("left_box", dynamo.V(centre.X-leftBox.X-4, hy, 1), leftBox))
	hy = centre.Y - rightBox.Y + sqrt3 - 1
	s.track(staticBox("right_box", dynamo.V(rightBox.X-centre.X-4, hy, 1), rightBox))

	return s, nil
}
