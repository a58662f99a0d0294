package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/teatro/internal/config"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/sim"
)

// Experiment is one configured run of one scene.
type Experiment struct {
	cfg       *config.Config
	scene     dynamo.Scene
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the configured scene and attaches its default metrics.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	name := e.cfg.Scene
	if name == "" {
		name = config.DefaultScene
	}

	scene, err := reg.GetScene(name, e.cfg)
	if err != nil {
		return err
	}
	e.scene = scene
	e.simulator = sim.New(scene)
	for _, m := range reg.DefaultMetrics(scene) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.Run.Sim())
}

func (e *Experiment) Scene() dynamo.Scene { return e.scene }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
