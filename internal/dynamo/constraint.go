package dynamo

import "fmt"

// distanceEpsilon below which a Distance constraint has no defined direction.
const distanceEpsilon = 1e-6

type ConstraintKind int

const (
	KindDistance ConstraintKind = iota
	KindGround
	KindBouncyGround
)

func (k ConstraintKind) String() string {
	switch k {
	case KindDistance:
		return "distance"
	case KindGround:
		return "ground"
	case KindBouncyGround:
		return "bouncy_ground"
	}
	return fmt.Sprintf("constraint(%d)", int(k))
}

// Constraint is the closed set {Distance, Ground, BouncyGround}. The World
// relaxes each one once per tick. Pointer variants are accepted by
// AddConstraint and stored by value.
type Constraint interface {
	Kind() ConstraintKind
	Bodies() []BodyID
	solve(bodies []Body)
}

// Distance nudges two bodies toward RestLength. A kinematic end is never
// moved; velocities are never touched.
type Distance struct {
	A, B       BodyID
	RestLength float64
	Stiffness  float64
}

func NewDistance(a, b BodyID, restLength, stiffness float64) Distance {
	return Distance{A: a, B: b, RestLength: restLength, Stiffness: stiffness}
}

// NewDistanceAtRest measures the rest length from the bodies' current
// positions in w.
func NewDistanceAtRest(w *World, a, b BodyID, stiffness float64) Distance {
	rest := w.Body(b).Position.Sub(w.Body(a).Position).Length()
	return NewDistance(a, b, rest, stiffness)
}

func (Distance) Kind() ConstraintKind { return KindDistance }
func (c Distance) Bodies() []BodyID   { return []BodyID{c.A, c.B} }

// Ground is an inelastic floor: penetration is pushed out and downward
// velocity is absorbed.
type Ground struct {
	Body   BodyID
	FloorY float64
}

func NewGround(body BodyID, floorY float64) Ground {
	return Ground{Body: body, FloorY: floorY}
}

func (Ground) Kind() ConstraintKind { return KindGround }
func (c Ground) Bodies() []BodyID   { return []BodyID{c.Body} }

// BouncyGround reflects downward velocity scaled by Restitution on contact.
type BouncyGround struct {
	Body        BodyID
	FloorY      float64
	Restitution float64
}

func NewBouncyGround(body BodyID, floorY, restitution float64) BouncyGround {
	return BouncyGround{Body: body, FloorY: floorY, Restitution: restitution}
}

func (BouncyGround) Kind() ConstraintKind { return KindBouncyGround }
func (c BouncyGround) Bodies() []BodyID   { return []BodyID{c.Body} }

func (c Distance) solve(bodies []Body) {
	a, b := &bodies[c.A], &bodies[c.B]
	delta := b.Position.Sub(a.Position)
	dist := delta.Length()
	if dist <= distanceEpsilon {
		return
	}
	diff := (dist - c.RestLength) / dist
	impulse := delta.Scale(0.5 * c.Stiffness * diff)
	if a.InvMass > 0 {
		a.Position = a.Position.Add(impulse)
	}
	if b.InvMass > 0 {
		b.Position = b.Position.Sub(impulse)
	}
}

// pushOutOfFloor corrects penetration and reports whether the body was in
// contact while moving downward.
func pushOutOfFloor(b *Body, floorY float64) bool {
	bottom := b.Bottom()
	if bottom >= floorY {
		return false
	}
	b.Position[1] += floorY - bottom
	return b.Velocity.Y() < 0
}

func (c Ground) solve(bodies []Body) {
	b := &bodies[c.Body]
	if pushOutOfFloor(b, c.FloorY) {
		b.Velocity[1] = 0
	}
}

func (c BouncyGround) solve(bodies []Body) {
	b := &bodies[c.Body]
	if pushOutOfFloor(b, c.FloorY) {
		b.Velocity[1] = -b.Velocity[1] * c.Restitution
	}
}

// byValue unwraps pointer variants. A nil pointer is returned unchanged.
func byValue(c Constraint) Constraint {
	switch p := c.(type) {
	case *Distance:
		if p != nil {
			return *p
		}
	case *Ground:
		if p != nil {
			return *p
		}
	case *BouncyGround:
		if p != nil {
			return *p
		}
	}
	return c
}
