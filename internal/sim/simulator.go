package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/teatro/internal/dynamo"
)

// Simulator drives one scene at a fixed timestep. It owns the scene for the
// duration of a run.
type Simulator struct {
	scene     dynamo.Scene
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(scene dynamo.Scene) *Simulator {
	return &Simulator{
		scene:     scene,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Scene() dynamo.Scene           { return s.scene }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}
	result := &Result{
		Scene:   s.scene.Name(),
		Frames:  make([]dynamo.Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	f := s.scene.Frame()
	result.Frames = append(result.Frames, f)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.scene.Step(cfg.Dt)
		f = s.scene.Frame()
		result.StepsTaken++

		if cfg.ValidateState && !f.IsValid() {
			err := dynamo.SimError{Time: f.Time, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			result.Frames = append(result.Frames, f)
			break
		}

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnStep(f)
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Frames = append(result.Frames, f)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps until the duration elapses or fn returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(dynamo.Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := cfg.Steps()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.scene.Step(cfg.Dt)
		f := s.scene.Frame()

		if cfg.ValidateState && !f.IsValid() {
			return dynamo.SimError{Time: f.Time, Step: i, Message: "invalid state (NaN/Inf)"}
		}
		if !fn(f) {
			return nil
		}
	}

	return nil
}
