package scenes

import (
	"fmt"
	"sort"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

type Builder func(integ dynamo.Integrator, p Params) (*Scene, error)

// Entry describes a registered scene.
type Entry struct {
	Name        string
	RowPrefix   string
	Description string
	Build       Builder
	Defaults    Params
}

type Registry struct {
	scenes map[string]Entry
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Entry)}

	r.Register(Entry{
		Name:        "billiards",
		RowPrefix:   "Billiards",
		Description: "cue ball into a triangular rack",
		Build:       Billiards,
		Defaults:    Params{Launch: dynamo.V(0, 5, 0), Layers: 3},
	})
	r.Register(Entry{
		Name:        "cradle",
		RowPrefix:   "Cradle",
		Description: "cue ball into a line of touching spheres",
		Build:       Cradle,
		Defaults:    Params{Launch: dynamo.V(0, 5, 0), Spheres: 4},
	})
	r.Register(Entry{
		Name:        "bernoulli",
		RowPrefix:   "Bernoulli",
		Description: "cue ball into a row of spheres across its path",
		Build:       Bernoulli,
		Defaults:    Params{Launch: dynamo.V(0, 5, 0), Spheres: 4},
	})
	r.Register(Entry{
		Name:        "geyser",
		RowPrefix:   "BallGeyser",
		Description: "cue ball fired up a packed column between two walls",
		Build:       Geyser,
		Defaults:    Params{Launch: dynamo.V(0, 20, 0), Layers: 7},
	})

	return r
}

func (r *Registry) Register(e Entry) {
	r.scenes[e.Name] = e
}

func (r *Registry) Get(name string) (Entry, error) {
	e, ok := r.scenes[name]
	if !ok {
		return Entry{}, fmt.Errorf("unknown scene: %s (available: %v)", name, r.List())
	}
	return e, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
