package sim

import "github.com/san-kum/teatro/internal/dynamo"

type Config struct {
	Dt            float64
	Duration      float64
	RecordEvery   int
	ValidateState bool
}

// DefaultConfig runs ten seconds at 60 Hz and records every frame.
func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Steps is the number of ticks a run takes.
func (c Config) Steps() int {
	return int(c.Duration / c.Dt)
}

type Result struct {
	Scene      string
	Frames     []dynamo.Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded frame.
func (r *Result) Final() dynamo.Frame {
	if len(r.Frames) == 0 {
		return dynamo.Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Series extracts one coordinate (0=x, 1=y, 2=z) of a named body across the
// recorded frames.
func (r *Result) Series(body string, axis int) []float64 {
	out := make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if s, ok := f.Body(body); ok {
			out = append(out, s.Position[axis])
		}
	}
	return out
}
