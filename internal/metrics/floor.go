package metrics

import (
	"math"

	"github.com/san-kum/teatro/internal/dynamo"
)

// FloorClearance is the smallest gap seen between the bottom face of any
// tracked body and the floor. Negative values mean a body penetrated the
// floor.
type FloorClearance struct {
	name    string
	bodies  []string
	floorY  float64
	min     float64
	samples int
}

func NewFloorClearance(floorY float64, bodies ...string) *FloorClearance {
	return &FloorClearance{
		name:   "floor_clearance",
		bodies: bodies,
		floorY: floorY,
		min:    math.Inf(1),
	}
}

func (c *FloorClearance) Name() string { return c.name }

func (c *FloorClearance) Observe(f dynamo.Frame) {
	for _, name := range c.bodies {
		s, ok := f.Body(name)
		if !ok {
			continue
		}
		c.min = math.Min(c.min, s.Bottom()-c.floorY)
		c.samples++
	}
}

func (c *FloorClearance) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.min
}

func (c *FloorClearance) Reset() {
	c.min = math.Inf(1)
	c.samples = 0
}

// Settled reports 1 when, at the last frame, the body is slower than eps and
// its center sits within eps of restY.
type Settled struct {
	name  string
	body  string
	restY float64
	eps   float64
	last  dynamo.BodyState
	seen  bool
}

func NewSettled(body string, restY, eps float64) *Settled {
	return &Settled{
		name:  "settled",
		body:  body,
		restY: restY,
		eps:   eps,
	}
}

func (s *Settled) Name() string { return s.name }

func (s *Settled) Observe(f dynamo.Frame) {
	if b, ok := f.Body(s.body); ok {
		s.last = b
		s.seen = true
	}
}

func (s *Settled) Value() float64 {
	if !s.seen {
		return 0
	}
	if s.last.Velocity.Length() < s.eps && math.Abs(s.last.Position.Y()-s.restY) < s.eps {
		return 1
	}
	return 0
}

func (s *Settled) Reset() {
	s.last = dynamo.BodyState{}
	s.seen = false
}
