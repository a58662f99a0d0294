package dynamo

// BodyID is a stable handle into a World's body arena.
type BodyID int

// Body is point or box mass state. A nil HalfExtents makes the body a point
// for contact purposes. InvMass == 0 marks a kinematic body.
type Body struct {
	Position    Vec3
	Velocity    Vec3
	Mass        float64
	InvMass     float64
	HalfExtents *Vec3
}

type BodyOption func(*Body)

func WithVelocity(v Vec3) BodyOption {
	return func(b *Body) { b.Velocity = v }
}

func WithHalfExtents(h Vec3) BodyOption {
	return func(b *Body) { b.HalfExtents = &h }
}

// NewBody derives InvMass from mass once; mass is fixed afterwards.
func NewBody(position Vec3, mass float64, opts ...BodyOption) Body {
	b := Body{Position: position, Mass: mass}
	if mass > 0 {
		b.InvMass = 1.0 / mass
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *Body) IsKinematic() bool { return b.InvMass == 0 }

// HalfHeight is the box half-extent along y, or 0 for a point.
func (b *Body) HalfHeight() float64 {
	if b.HalfExtents == nil {
		return 0
	}
	return b.HalfExtents.Y()
}

func (b *Body) Bottom() float64 { return b.Position.Y() - b.HalfHeight() }
