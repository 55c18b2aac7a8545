package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultRowDir     = "BodyInfo"
	DefaultDocDir     = "JsonInfo"
	DefaultDocPrefix  = "Scene"
	DefaultNameTag    = "_bullet3"
	DefaultFlushEvery = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene      string       `yaml:"scene"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Gravity    Vec3Config   `yaml:"gravity"`
	Launch     Vec3Config   `yaml:"launch_velocity"`
	Layout     LayoutConfig `yaml:"layout"`
	Output     OutputConfig `yaml:"output"`
	LogLevel   string       `yaml:"log_level"`
}

type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// LayoutConfig controls procedural body placement. Zero values select the
// scene's own default.
type LayoutConfig struct {
	Spheres int `yaml:"spheres"`
	Layers  int `yaml:"layers"`
}

type OutputConfig struct {
	RowDir     string `yaml:"row_dir"`
	RowPrefix  string `yaml:"row_prefix"`
	DocDir     string `yaml:"doc_dir"`
	DocPrefix  string `yaml:"doc_prefix"`
	NameTag    string `yaml:"name_tag"`
	FlushEvery int    `yaml:"flush_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      "billiards",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Output: OutputConfig{
			RowDir:     DefaultRowDir,
			DocDir:     DefaultDocDir,
			DocPrefix:  DefaultDocPrefix,
			NameTag:    DefaultNameTag,
			FlushEvery: DefaultFlushEvery,
		},
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Dt <= 0 {
		problems = append(problems, fmt.Sprintf("dt must be positive, got %g", c.Dt))
	}
	if c.Duration <= 0 {
		problems = append(problems, fmt.Sprintf("duration must be positive, got %g", c.Duration))
	}
	if c.Layout.Spheres < 0 || c.Layout.Layers < 0 {
		problems = append(problems, "layout values must not be negative")
	}
	if c.Output.FlushEvery < 0 {
		problems = append(problems, "output.flush_every must not be negative")
	}
	if c.Output.RowDir == "" || c.Output.DocDir == "" {
		problems = append(problems, "output directories must be set")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Steps is the number of ticks a run performs.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
