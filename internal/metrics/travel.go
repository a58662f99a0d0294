package metrics

import (
	"math"

	"github.com/san-kum/teatro/internal/dynamo"
)

// MaxTravel is the largest horizontal (x/z) distance a body reaches from
// where it was first observed.
type MaxTravel struct {
	name  string
	body  string
	start dynamo.Vec3
	max   float64
	seen  bool
}

func NewMaxTravel(body string) *MaxTravel {
	return &MaxTravel{name: "max_travel", body: body}
}

func (m *MaxTravel) Name() string { return m.name }

func (m *MaxTravel) Observe(f dynamo.Frame) {
	s, ok := f.Body(m.body)
	if !ok {
		return
	}
	if !m.seen {
		m.start = s.Position
		m.seen = true
	}
	d := s.Position.Sub(m.start)
	m.max = math.Max(m.max, math.Hypot(d.X(), d.Z()))
}

// Start reports the first observed position.
func (m *MaxTravel) Start() dynamo.Vec3 { return m.start }

func (m *MaxTravel) Value() float64 { return m.max }

func (m *MaxTravel) Reset() {
	m.start = dynamo.Zero
	m.max = 0
	m.seen = false
}

type FinalSpeed struct {
	name  string
	body  string
	speed float64
}

func NewFinalSpeed(body string) *FinalSpeed {
	return &FinalSpeed{name: "final_speed", body: body}
}

func (s *FinalSpeed) Name() string { return s.name }

func (s *FinalSpeed) Observe(f dynamo.Frame) {
	if b, ok := f.Body(s.body); ok {
		s.speed = b.Velocity.Length()
	}
}

func (s *FinalSpeed) Value() float64 { return s.speed }

func (s *FinalSpeed) Reset() { s.speed = 0 }
