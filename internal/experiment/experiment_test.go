package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/teatro/internal/config"
	"github.com/san-kum/teatro/internal/physics"
	"github.com/san-kum/teatro/internal/sim"
)

func TestRegistryScenes(t *testing.T) {
	r := NewRegistry()

	names := r.ListScenes()
	if len(names) != 2 || names[0] != "ball" || names[1] != "puppet" {
		t.Fatalf("unexpected scenes %v", names)
	}

	for _, name := range names {
		scene, err := r.GetScene(name, config.DefaultConfig())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if scene.Name() != name {
			t.Errorf("expected scene %s, got %s", name, scene.Name())
		}
	}

	if _, err := r.GetScene("rocket", config.DefaultConfig()); err == nil {
		t.Error("expected error for unknown scene")
	}
}

func TestDefaultMetrics(t *testing.T) {
	r := NewRegistry()

	ball := physics.NewBall()
	if got := len(r.DefaultMetrics(ball)); got != 6 {
		t.Errorf("expected 6 ball metrics, got %d", got)
	}

	puppet := physics.NewPuppet()
	if got := len(r.DefaultMetrics(puppet)); got != 3 {
		t.Errorf("expected 3 puppet metrics, got %d", got)
	}

	stage := config.GetPreset("puppet", "stage")
	floored, err := physics.BuildPuppet(stage.World, stage.Puppet)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(r.DefaultMetrics(floored)); got != 4 {
		t.Errorf("expected 4 floored puppet metrics, got %d", got)
	}
}

func TestExperimentDrop(t *testing.T) {
	e := New(config.GetPreset("ball", "drop"))
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if err := e.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["settled"] != 1 {
		t.Errorf("ball should settle within 8s, final frame %+v", result.Final())
	}
	if result.Metrics["floor_clearance"] < -1e-6 {
		t.Errorf("ball penetrated floor by %f", -result.Metrics["floor_clearance"])
	}
	if result.Metrics["room_containment"] != 1 {
		t.Error("ball left the room")
	}
	if result.Metrics["max_travel"] > 1e-9 {
		t.Errorf("dropped ball should not travel, got %f", result.Metrics["max_travel"])
	}
}

func TestExperimentThrown(t *testing.T) {
	cfg := config.GetPreset("ball", "thrown")
	cfg.Run.Duration = 10
	e := New(cfg)
	if err := e.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if math.Abs(result.Metrics["max_travel"]) < 1 {
		t.Errorf("thrown ball should travel, got %f", result.Metrics["max_travel"])
	}
	if result.Metrics["room_containment"] != 1 {
		t.Error("thrown ball left the room")
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ball.Radius = -1
	if err := New(cfg).Setup(NewRegistry()); err == nil {
		t.Error("expected setup to reject a negative radius")
	}
}

func TestFactoryDeterministic(t *testing.T) {
	cfg := config.GetPreset("puppet", "sway")
	e := sim.NewEnsemble(NewRegistry().Factory("puppet", cfg), 3, nil)

	results, err := e.Run(context.Background(), sim.Config{Dt: 1.0 / 60, Duration: 3})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if !sim.Deterministic(results) {
		t.Error("puppet runs diverged")
	}
}
