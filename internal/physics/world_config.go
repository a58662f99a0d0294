package physics

import (
	"fmt"

	"github.com/san-kum/teatro/internal/dynamo"
)

// WorldConfig holds the world-level parameters shared by every scene.
type WorldConfig struct {
	Gravity        dynamo.Vec3 `yaml:"gravity" json:"gravity"`
	LinearDamping  float64     `yaml:"linear_damping" json:"linear_damping"`
	GravityScaling string      `yaml:"gravity_scaling" json:"gravity_scaling"`
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:        dynamo.V(0, dynamo.DefaultGravityY, 0),
		LinearDamping:  dynamo.DefaultLinearDamping,
		GravityScaling: dynamo.GravityUniform.String(),
	}
}

// NewWorld builds an empty world from c.
func (c WorldConfig) NewWorld() (*dynamo.World, error) {
	scaling, err := dynamo.ParseGravityScaling(c.GravityScaling)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	return dynamo.NewWorld(
		dynamo.WithGravity(c.Gravity),
		dynamo.WithLinearDamping(c.LinearDamping),
		dynamo.WithGravityScaling(scaling),
	), nil
}

// worldParams exposes the mutable world fields to Configurable scenes.
func worldParams(w *dynamo.World) map[string]float64 {
	return map[string]float64{
		"gravity": w.Gravity.Y(),
		"damping": w.LinearDamping,
	}
}

func setWorldParam(w *dynamo.World, name string, value float64) (bool, error) {
	switch name {
	case "gravity":
		w.Gravity[1] = value
	case "damping":
		if value < 0 || value >= 1 {
			return true, fmt.Errorf("%w: damping %g", dynamo.ErrParameterBounds, value)
		}
		w.LinearDamping = value
	default:
		return false, nil
	}
	return true, nil
}
