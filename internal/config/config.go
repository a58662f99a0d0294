package config

import (
	"fmt"
	"os"

	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/physics"
	"github.com/san-kum/teatro/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScene    = "ball"
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0
)

type Config struct {
	Scene  string               `yaml:"scene"`
	World  physics.WorldConfig  `yaml:"world"`
	Run    RunConfig            `yaml:"run"`
	Ball   physics.BallConfig   `yaml:"ball"`
	Puppet physics.PuppetConfig `yaml:"puppet"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	RecordEvery int     `yaml:"record_every"`
}

// Sim converts the run section into a simulator configuration.
func (r RunConfig) Sim() sim.Config {
	return sim.Config{
		Dt:            r.Dt,
		Duration:      r.Duration,
		RecordEvery:   r.RecordEvery,
		ValidateState: true,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Scene: DefaultScene,
		World: physics.DefaultWorldConfig(),
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			RecordEvery: 1,
		},
		Ball:   physics.DefaultBallConfig(),
		Puppet: physics.DefaultPuppetConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
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

// Validate rejects values the scenes cannot be built from. Every failure
// wraps dynamo.ErrParameterBounds.
func (c *Config) Validate() error {
	switch c.Scene {
	case "", "ball", "puppet":
	default:
		return bounds("unknown scene %q", c.Scene)
	}
	if c.Run.Dt <= 0 {
		return bounds("dt must be positive, got %g", c.Run.Dt)
	}
	if c.Run.Duration <= 0 {
		return bounds("duration must be positive, got %g", c.Run.Duration)
	}
	if c.Run.RecordEvery < 0 {
		return bounds("record_every must not be negative, got %d", c.Run.RecordEvery)
	}
	if c.World.LinearDamping < 0 || c.World.LinearDamping >= 1 {
		return bounds("linear_damping must be in [0,1), got %g", c.World.LinearDamping)
	}
	if _, err := dynamo.ParseGravityScaling(c.World.GravityScaling); err != nil {
		return err
	}
	if c.Ball.Radius <= 0 {
		return bounds("ball radius must be positive, got %g", c.Ball.Radius)
	}
	if c.Ball.Mass <= 0 {
		return bounds("ball mass must be positive, got %g", c.Ball.Mass)
	}
	if c.Ball.Restitution < 0 {
		return bounds("ball restitution must not be negative, got %g", c.Ball.Restitution)
	}
	for name, k := range map[string]float64{
		"skeleton_stiffness": c.Puppet.SkeletonStiffness,
		"string_stiffness":   c.Puppet.StringStiffness,
	} {
		if k <= 0 || k > 1 {
			return bounds("puppet %s must be in (0,1], got %g", name, k)
		}
	}
	return nil
}

func bounds(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrParameterBounds, fmt.Sprintf(format, args...))
}
