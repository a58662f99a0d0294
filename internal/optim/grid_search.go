package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/teatro/internal/sim"
)

var ErrNoCandidates = errors.New("no parameter combination completed")

// RunFunc runs one scene with the given parameter overrides.
type RunFunc func(ctx context.Context, params map[string]float64) (*sim.Result, error)

// Point is one evaluated grid cell.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination in the grid and returns the best
// parameters by metricName together with all evaluated points in grid
// order. Failed runs are kept as points with Err set.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) (map[string]float64, float64, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("%d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var points []Point
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metricName, &points); err != nil {
		return nil, 0, points, err
	}

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		if (g.Maximize && p.Value > best) || (!g.Maximize && p.Value < best) {
			best = p.Value
			bestParams = p.Params
		}
	}
	if bestParams == nil {
		return nil, 0, points, ErrNoCandidates
	}
	return bestParams, best, points, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	metricName string,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		p := Point{Params: current}
		result, err := run(ctx, current)
		switch {
		case err != nil:
			p.Err = err
		case len(result.Errors) > 0:
			p.Err = result.Errors[0]
		default:
			v, ok := result.Metrics[metricName]
			if !ok {
				p.Err = fmt.Errorf("no metric %q", metricName)
			}
			p.Value = v
		}
		*points = append(*points, p)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, metricName, points); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// ParseRange parses "name=lo:hi:n" or "name=v1,v2,...".
func ParseRange(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad range %q: want name=lo:hi:n or name=v1,v2", s)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad range %q: %w", s, err)
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad range %q: %w", s, err)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			return "", nil, fmt.Errorf("bad range %q: count must be a positive integer", s)
		}
		return name, Linspace(lo, hi, n), nil
	}

	var values []float64
	for _, f := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad range %q: %w", s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}
