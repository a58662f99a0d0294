package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/teatro/internal/config"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/experiment"
	"github.com/san-kum/teatro/internal/sim"
)

func quadratic(_ context.Context, p map[string]float64) (*sim.Result, error) {
	x, y := p["x"], p["y"]
	return &sim.Result{Metrics: map[string]float64{"cost": (x-1)*(x-1) + (y+2)*(y+2)}}, nil
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{0, 1, 2}, {-3, -2, -1}})

	best, val, points, err := g.Search(context.Background(), quadratic, "cost")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(points) != 9 {
		t.Errorf("expected 9 points, got %d", len(points))
	}
	if best["x"] != 1 || best["y"] != -2 || val != 0 {
		t.Errorf("expected x=1 y=-2 cost=0, got %v cost=%f", best, val)
	}
	if points[0].Params["x"] != 0 || points[0].Params["y"] != -3 {
		t.Errorf("expected grid order, first point %v", points[0].Params)
	}
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{0, 1, 2}, {-3, -2, -1}})
	g.Maximize = true

	_, val, _, err := g.Search(context.Background(), quadratic, "cost")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if val != 5 {
		t.Errorf("expected max cost 5, got %f", val)
	}
}

func TestGridSearchFailures(t *testing.T) {
	boom := errors.New("boom")
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})

	_, _, points, err := g.Search(context.Background(), func(context.Context, map[string]float64) (*sim.Result, error) {
		return nil, boom
	}, "cost")
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
	for _, p := range points {
		if !errors.Is(p.Err, boom) {
			t.Errorf("expected point error, got %v", p.Err)
		}
	}

	_, _, _, err = g.Search(context.Background(), quadratic, "missing")
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates for missing metric, got %v", err)
	}

	if _, _, _, err := NewGridSearch([]string{"x"}, nil).Search(context.Background(), quadratic, "cost"); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	if _, _, _, err := g.Search(ctx, quadratic, "cost"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if got := Linspace(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("expected [3], got %v", got)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		name string
		n    int
		ok   bool
	}{
		{"damping=0:0.1:3", "damping", 3, true},
		{"gravity=5,9.81,20", "gravity", 3, true},
		{"gravity=9.81", "gravity", 1, true},
		{"=1,2", "", 0, false},
		{"damping", "", 0, false},
		{"damping=a:b:3", "", 0, false},
		{"damping=0:1:0", "", 0, false},
		{"damping=1,x", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, values, err := ParseRange(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("expected ok=%v, got err %v", tt.ok, err)
			}
			if !tt.ok {
				return
			}
			if name != tt.name || len(values) != tt.n {
				t.Errorf("expected %s with %d values, got %s %v", tt.name, tt.n, name, values)
			}
		})
	}
}

func TestGridSearchBallDamping(t *testing.T) {
	cfg := config.GetPreset("ball", "thrown")
	cfg.Run.Duration = 3
	reg := experiment.NewRegistry()

	run := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		exp := experiment.New(cfg)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		tunable := exp.Scene().(dynamo.Configurable)
		for k, v := range params {
			if err := tunable.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		return exp.Run(ctx)
	}

	g := NewGridSearch([]string{"damping"}, [][]float64{{0, 0.01, 0.05}})
	best, _, points, err := g.Search(context.Background(), run, "max_travel")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best["damping"] != 0.05 {
		t.Errorf("expected heaviest damping to travel least, got %v", best)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Value > points[i-1].Value {
			t.Errorf("travel should shrink with damping: %v", points)
		}
	}
}
