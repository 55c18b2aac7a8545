package config

import "sort"

var Presets = map[string]map[string]*Config{
	"billiards": {
		"rack": {
			Scene: "billiards", Integrator: "rk4", Dt: DefaultDt, Duration: 10.0,
			Launch: Vec3Config{Y: 5}, Layout: LayoutConfig{Layers: 3},
		},
		"break": {
			Scene: "billiards", Integrator: "rk4", Dt: 1.0 / 240, Duration: 8.0,
			Launch: Vec3Config{Y: 20}, Layout: LayoutConfig{Layers: 5},
		},
	},
	"cradle": {
		"four": {
			Scene: "cradle", Integrator: "rk4", Dt: DefaultDt, Duration: 10.0,
			Launch: Vec3Config{Y: 5}, Layout: LayoutConfig{Spheres: 4},
		},
		"long": {
			Scene: "cradle", Integrator: "rk4", Dt: DefaultDt, Duration: 20.0,
			Launch: Vec3Config{Y: 5}, Layout: LayoutConfig{Spheres: 8},
		},
	},
	"bernoulli": {
		"four": {
			Scene: "bernoulli", Integrator: "rk4", Dt: DefaultDt, Duration: 10.0,
			Launch: Vec3Config{Y: 5}, Layout: LayoutConfig{Spheres: 4},
		},
		"wide": {
			Scene: "bernoulli", Integrator: "rk4", Dt: DefaultDt, Duration: 15.0,
			Launch: Vec3Config{Y: 8}, Layout: LayoutConfig{Spheres: 9},
		},
	},
	"geyser": {
		"eruption": {
			Scene: "geyser", Integrator: "rk4", Dt: DefaultDt, Duration: 10.0,
			Launch: Vec3Config{Y: 20}, Layout: LayoutConfig{Layers: 7},
		},
		"gentle": {
			Scene: "geyser", Integrator: "rk4", Dt: DefaultDt, Duration: 10.0,
			Launch: Vec3Config{Y: 10}, Layout: LayoutConfig{Layers: 5},
		},
	},
}

// GetPreset returns a complete config for the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	p, ok := scenePresets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Scene = p.Scene
	cfg.Integrator = p.Integrator
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.Gravity = p.Gravity
	cfg.Launch = p.Launch
	cfg.Layout = p.Layout
	return cfg
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
