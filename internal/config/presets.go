package config

import (
	"sort"

	"github.com/san-kum/teatro/internal/dynamo"
)

var Presets = map[string]map[string]*Config{
	"ball": {
		"drop":   ballPreset(nil),
		"thrown": ballPreset(thrown),
		"dead":   ballPreset(inelastic),
	},
	"puppet": {
		"sway":  puppetPreset(nil),
		"stage": puppetPreset(stage),
	},
}

func thrown(c *Config) { c.Ball.Velocity = dynamo.V(4, 0, 0) }

func inelastic(c *Config) {
	c.Ball.Bouncy = false
	c.Ball.Restitution = 0
}

func stage(c *Config) {
	c.Puppet.Floor = true
	c.Puppet.FloorY = 4
}

func ballPreset(tweak func(*Config)) *Config {
	c := DefaultConfig()
	c.Scene = "ball"
	c.Run.Duration = 8
	if tweak != nil {
		tweak(c)
	}
	return c
}

func puppetPreset(tweak func(*Config)) *Config {
	c := DefaultConfig()
	c.Scene = "puppet"
	c.Run.Duration = 30
	if tweak != nil {
		tweak(c)
	}
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
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
