package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultGravityY      = -9.82
	DefaultLinearDamping = 0.02
)

// GravityScaling selects how gravity turns into acceleration.
type GravityScaling int

const (
	// GravityUniform accelerates every dynamic body by Gravity.
	GravityUniform GravityScaling = iota
	// GravityInverseMass accelerates by Gravity*InvMass, so heavier bodies
	// fall slower. Kept for parity with scenes tuned against that model.
	GravityInverseMass
)

func (g GravityScaling) String() string {
	switch g {
	case GravityUniform:
		return "uniform"
	case GravityInverseMass:
		return "inverse_mass"
	}
	return fmt.Sprintf("gravity_scaling(%d)", int(g))
}

// ParseGravityScaling accepts the names produced by String; "" is uniform.
func ParseGravityScaling(s string) (GravityScaling, error) {
	switch s {
	case "", "uniform":
		return GravityUniform, nil
	case "inverse_mass":
		return GravityInverseMass, nil
	}
	return 0, fmt.Errorf("%w: unknown gravity scaling %q", ErrParameterBounds, s)
}

// World owns the body arena and the ordered constraint list. It is not safe
// for concurrent use.
type World struct {
	Gravity        Vec3
	LinearDamping  float64
	GravityScaling GravityScaling

	bodies      []Body
	constraints []Constraint
}

type WorldOption func(*World)

func WithGravity(g Vec3) WorldOption {
	return func(w *World) { w.Gravity = g }
}

func WithLinearDamping(d float64) WorldOption {
	return func(w *World) { w.LinearDamping = d }
}

func WithGravityScaling(s GravityScaling) WorldOption {
	return func(w *World) { w.GravityScaling = s }
}

func NewWorld(opts ...WorldOption) *World {
	w := &World{
		Gravity:       V(0, DefaultGravityY, 0),
		LinearDamping: DefaultLinearDamping,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddBody appends b and returns its handle. Insertion order is integration
// order.
func (w *World) AddBody(b Body) BodyID {
	w.bodies = append(w.bodies, b)
	return BodyID(len(w.bodies) - 1)
}

// AddConstraint appends c. Insertion order is solve order. Pointer
// variants are copied, so later writes through the pointer have no effect.
// A nil constraint panics.
func (w *World) AddConstraint(c Constraint) {
	c = byValue(c)
	switch c.(type) {
	case Distance, Ground, BouncyGround:
	default:
		panic(fmt.Sprintf("dynamo: unsupported constraint %T", c))
	}
	w.constraints = append(w.constraints, c)
}

// Body returns the live body for id. The pointer is invalidated by the next
// AddBody.
func (w *World) Body(id BodyID) *Body {
	return &w.bodies[id]
}

func (w *World) Has(id BodyID) bool { return id >= 0 && int(id) < len(w.bodies) }

// Drive repositions a kinematic body.
func (w *World) Drive(id BodyID, position Vec3) error {
	if !w.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	b := &w.bodies[id]
	if !b.IsKinematic() {
		return fmt.Errorf("%w: body %d has mass %g", ErrNotKinematic, id, b.Mass)
	}
	b.Position = position
	return nil
}

func (w *World) Len() int            { return len(w.bodies) }
func (w *World) NumConstraints() int { return len(w.constraints) }

func (w *World) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Constraints() []Constraint {
	out := make([]Constraint, len(w.constraints))
	copy(out, w.constraints)
	return out
}

// Step advances one tick: integrate dynamic bodies, then relax every
// constraint once in insertion order. Corrections are written in place, so
// later constraints see earlier ones within the same tick.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.integrate(dt)
	w.relax()
}

func (w *World) integrate(dt float64) {
	damping := math.Max(0, 1.0-w.LinearDamping)
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.InvMass == 0 {
			continue
		}
		acc := w.Gravity
		if w.GravityScaling == GravityInverseMass {
			acc = w.Gravity.Scale(b.InvMass)
		}
		b.Velocity = b.Velocity.Add(acc.Scale(dt))
		b.Velocity = b.Velocity.Scale(damping)
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

func (w *World) relax() {
	for _, c := range w.constraints {
		c.solve(w.bodies)
	}
}

// Validate checks handles and parameter ranges. Step itself never validates.
func (w *World) Validate() error {
	if w.LinearDamping < 0 || w.LinearDamping >= 1 {
		return fmt.Errorf("%w: linear damping %g not in [0,1)", ErrParameterBounds, w.LinearDamping)
	}
	for i, b := range w.bodies {
		if b.Mass < 0 {
			return fmt.Errorf("%w: body %d mass %g", ErrParameterBounds, i, b.Mass)
		}
	}
	for i, c := range w.constraints {
		for _, id := range c.Bodies() {
			if !w.Has(id) {
				return fmt.Errorf("constraint %d (%s): %w: %d", i, c.Kind(), ErrUnknownBody, id)
			}
		}
		switch c := c.(type) {
		case Distance:
			if c.Stiffness < 0 || c.Stiffness > 1 {
				return fmt.Errorf("constraint %d: %w: stiffness %g", i, ErrParameterBounds, c.Stiffness)
			}
			if c.RestLength < 0 {
				return fmt.Errorf("constraint %d: %w: rest length %g", i, ErrParameterBounds, c.RestLength)
			}
		case BouncyGround:
			if c.Restitution < 0 || c.Restitution > 1 {
				return fmt.Errorf("constraint %d: %w: restitution %g", i, ErrParameterBounds, c.Restitution)
			}
		}
	}
	return nil
}

// KineticEnergy sums 0.5*m*|v|^2 over dynamic bodies.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.InvMass == 0 {
			continue
		}
		e += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return e
}

// PotentialEnergy is measured against refY along the gravity axis.
func (w *World) PotentialEnergy(refY float64) float64 {
	g := -w.Gravity.Y()
	e := 0.0
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.InvMass == 0 {
			continue
		}
		e += b.Mass * g * (b.Position.Y() - refY)
	}
	return e
}
