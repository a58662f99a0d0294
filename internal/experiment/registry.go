package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/teatro/internal/config"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/metrics"
	"github.com/san-kum/teatro/internal/physics"
	"github.com/san-kum/teatro/internal/sim"
)

// SettleEpsilon bounds speed and height error for the settled metric.
const SettleEpsilon = 0.05

type SceneFactory func(cfg *config.Config) (dynamo.Scene, error)

type Registry struct {
	scenes map[string]SceneFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes: make(map[string]SceneFactory),
	}

	r.scenes["ball"] = func(cfg *config.Config) (dynamo.Scene, error) {
		s, err := physics.BuildBall(cfg.World, cfg.Ball)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	r.scenes["puppet"] = func(cfg *config.Config) (dynamo.Scene, error) {
		s, err := physics.BuildPuppet(cfg.World, cfg.Puppet)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return r
}

func (r *Registry) Register(name string, fn SceneFactory) {
	r.scenes[name] = fn
}

func (r *Registry) GetScene(name string, cfg *config.Config) (dynamo.Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn(cfg)
}

// Factory binds a scene name and configuration for ensemble runs.
func (r *Registry) Factory(name string, cfg *config.Config) sim.Factory {
	return func() (dynamo.Scene, error) {
		return r.GetScene(name, cfg)
	}
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics picks the metrics that make sense for a scene.
func (r *Registry) DefaultMetrics(scene dynamo.Scene) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewKineticEnergy(scene.World())}

	switch s := scene.(type) {
	case *physics.Ball:
		ms = append(ms,
			metrics.NewFloorClearance(s.FloorY(), physics.BallName),
			metrics.NewMaxTravel(physics.BallName),
			metrics.NewFinalSpeed(physics.BallName),
			metrics.NewRoomContainment(physics.BallName, metrics.RoomHalfX, metrics.RoomHalfZ),
			metrics.NewSettled(physics.BallName, s.FloorY()+s.Radius(), SettleEpsilon),
		)
	case *physics.Puppet:
		ms = append(ms,
			metrics.NewMaxTravel(physics.Torso),
			metrics.NewFinalSpeed(physics.Torso),
		)
		if s.HasFloor() {
			ms = append(ms, metrics.NewFloorClearance(s.FloorY(), physics.FootL, physics.FootR))
		}
	}

	return ms
}
