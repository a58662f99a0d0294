package dynamo

import "fmt"

// BodyState is a read-only copy of one named body.
type BodyState struct {
	Name        string `json:"name"`
	Position    Vec3   `json:"position"`
	Velocity    Vec3   `json:"velocity"`
	HalfExtents *Vec3  `json:"half_extents,omitempty"`
}

func (s BodyState) Bottom() float64 {
	if s.HalfExtents == nil {
		return s.Position.Y()
	}
	return s.Position.Y() - s.HalfExtents.Y()
}

// Frame is a snapshot of a scene after a step. It never aliases world state.
type Frame struct {
	Time   float64     `json:"time"`
	Bodies []BodyState `json:"bodies"`
}

// Body looks up a body state by name.
func (f Frame) Body(name string) (BodyState, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}

func (f Frame) IsValid() bool {
	for _, b := range f.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	return true
}

// Capture copies the named bodies out of w.
func Capture(w *World, t float64, names []string, ids []BodyID) Frame {
	f := Frame{Time: t, Bodies: make([]BodyState, len(ids))}
	for i, id := range ids {
		b := w.Body(id)
		s := BodyState{Name: names[i], Position: b.Position, Velocity: b.Velocity}
		if b.HalfExtents != nil {
			h := *b.HalfExtents
			s.HalfExtents = &h
		}
		f.Bodies[i] = s
	}
	return f
}

// Scene wires bodies and constraints into a World and drives it.
type Scene interface {
	Name() string
	Step(dt float64)
	Time() float64
	World() *World
	Frame() Frame
}

// Floored is implemented by scenes with a single floor plane.
type Floored interface {
	FloorY() float64
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return ErrInvalidState }

// Configurable scenes expose tunable parameters by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Kickable scenes accept a horizontal velocity change.
type Kickable interface {
	SetHorizontalSpeed(speed float64)
}
