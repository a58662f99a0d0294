package sim

import (
	"context"
	"sync"

	"github.com/san-kum/teatro/internal/dynamo"
)

// Factory builds a fresh scene. Each ensemble run gets its own scene, so no
// World is ever shared between goroutines.
type Factory func() (dynamo.Scene, error)

// MetricFactory builds fresh metrics for one run.
type MetricFactory func() []dynamo.Metric

type Ensemble struct {
	build   Factory
	metrics MetricFactory
	numRuns int
}

func NewEnsemble(build Factory, numRuns int, metrics MetricFactory) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			scene, err := e.build()
			if err != nil {
				errs[idx] = err
				return
			}
			s := New(scene)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Divergence reports the first frame index at which two runs differ, or -1
// when they are bit-identical.
func Divergence(a, b *Result) int {
	n := len(a.Frames)
	if len(b.Frames) < n {
		n = len(b.Frames)
	}
	for i := 0; i < n; i++ {
		if !sameFrame(a.Frames[i], b.Frames[i]) {
			return i
		}
	}
	if len(a.Frames) != len(b.Frames) {
		return n
	}
	return -1
}

// Deterministic reports whether every run matches the first bit for bit.
func Deterministic(results []*Result) bool {
	if len(results) < 2 {
		return true
	}
	for _, r := range results[1:] {
		if Divergence(results[0], r) != -1 {
			return false
		}
	}
	return true
}

func sameFrame(a, b dynamo.Frame) bool {
	if a.Time != b.Time || len(a.Bodies) != len(b.Bodies) {
		return false
	}
	for i := range a.Bodies {
		if a.Bodies[i].Position != b.Bodies[i].Position || a.Bodies[i].Velocity != b.Bodies[i].Velocity {
			return false
		}
	}
	return true
}
