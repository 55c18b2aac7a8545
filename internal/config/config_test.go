package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "billiards" {
		t.Errorf("expected scene billiards, got %s", cfg.Scene)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Output.RowDir != "BodyInfo" || cfg.Output.DocDir != "JsonInfo" {
		t.Errorf("unexpected output dirs %+v", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0.01
	cfg.Duration = 1
	if cfg.Steps() != 100 {
		t.Errorf("expected 100 steps, got %d", cfg.Steps())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
scene: cradle
dt: 0.005
launch_velocity:
  y: 7
layout:
  spheres: 6
output:
  row_dir: out/rows
  name_tag: _sim
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scene != "cradle" || cfg.Dt != 0.005 || cfg.Launch.Y != 7 || cfg.Layout.Spheres != 6 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Output.RowDir != "out/rows" || cfg.Output.NameTag != "_sim" {
		t.Errorf("unexpected output %+v", cfg.Output)
	}
	// unset keys keep their defaults
	if cfg.Output.DocDir != DefaultDocDir || cfg.Duration != DefaultDuration {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("dt: -1\nlog_level: loud\n"), 0644)

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GetPreset("geyser", "eruption")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Layout.Layers != 7 || loaded.Launch.Y != 20 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cradle", "long")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Layout.Spheres != 8 {
		t.Errorf("expected 8 spheres, got %d", cfg.Layout.Spheres)
	}
	if cfg.Output.DocPrefix != DefaultDocPrefix {
		t.Error("preset should carry default output settings")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("cradle", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "four"); cfg != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("billiards")
	if len(presets) != 2 || presets[0] != "break" {
		t.Errorf("unexpected presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "warn", "error", ""} {
		if _, err := ParseLevel(name); err != nil {
			t.Errorf("ParseLevel(%q): %v", name, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
