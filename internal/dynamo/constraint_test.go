package dynamo

import (
	"math"
	"testing"
)

func staticWorld() *World {
	w := NewWorld()
	w.Gravity = Zero
	w.LinearDamping = 0
	return w
}

func TestDistance_Solve(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Body
		rest      float64
		stiffness float64
		wantA     Vec3
		wantB     Vec3
	}{
		{
			name: "stretched, both dynamic",
			a:    NewBody(V(0, 0, 0), 1), b: NewBody(V(4, 0, 0), 1),
			rest: 2, stiffness: 1,
			wantA: V(1, 0, 0), wantB: V(3, 0, 0),
		},
		{
			name: "compressed, both dynamic",
			a:    NewBody(V(0, 0, 0), 1), b: NewBody(V(2, 0, 0), 1),
			rest: 4, stiffness: 1,
			wantA: V(-1, 0, 0), wantB: V(3, 0, 0),
		},
		{
			name: "kinematic anchor never moves",
			a:    NewBody(V(0, 0, 0), 0), b: NewBody(V(0, -4, 0), 1),
			rest: 2, stiffness: 1,
			wantA: V(0, 0, 0), wantB: V(0, -3, 0),
		},
		{
			name: "half stiffness",
			a:    NewBody(V(0, 0, 0), 1), b: NewBody(V(0, 0, 4), 1),
			rest: 2, stiffness: 0.5,
			wantA: V(0, 0, 0.5), wantB: V(0, 0, 3.5),
		},
		{
			name: "degenerate zero distance is a no-op",
			a:    NewBody(V(1, 1, 1), 1), b: NewBody(V(1, 1, 1), 1),
			rest: 2, stiffness: 1,
			wantA: V(1, 1, 1), wantB: V(1, 1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := staticWorld()
			a := w.AddBody(tt.a)
			b := w.AddBody(tt.b)
			w.AddConstraint(NewDistance(a, b, tt.rest, tt.stiffness))
			w.relax(1.0 / 60)

			if got := w.Body(a).Position; !got.ApproxEqual(tt.wantA, 1e-12) {
				t.Errorf("bodyA: expected %v, got %v", tt.wantA, got)
			}
			if got := w.Body(b).Position; !got.ApproxEqual(tt.wantB, 1e-12) {
				t.Errorf("bodyB: expected %v, got %v", tt.wantB, got)
			}
			if w.Body(a).Velocity != Zero || w.Body(b).Velocity != Zero {
				t.Error("distance constraint must not touch velocity")
			}
		})
	}
}

func TestNewDistanceAtRest(t *testing.T) {
	w := staticWorld()
	a := w.AddBody(NewBody(V(0, 15, 0), 0))
	b := w.AddBody(NewBody(V(0, 10, 0), 0.5))
	c := NewDistanceAtRest(w, a, b, 0.9)

	if c.RestLength != 5 {
		t.Errorf("expected rest length 5, got %v", c.RestLength)
	}
	if c.Stiffness != 0.9 {
		t.Errorf("expected stiffness 0.9, got %v", c.Stiffness)
	}
}

func TestGround_Solve(t *testing.T) {
	tests := []struct {
		name    string
		body    Body
		floor   float64
		wantPos Vec3
		wantVel Vec3
	}{
		{
			name:    "point below floor moving down",
			body:    NewBody(V(0, -0.5, 0), 1, WithVelocity(V(1, -3, 0))),
			wantPos: V(0, 0, 0), wantVel: V(1, 0, 0),
		},
		{
			name:    "box penetrating",
			body:    NewBody(V(0, 0.5, 0), 1, WithHalfExtents(V(1, 1, 1)), WithVelocity(V(0, -2, 0))),
			wantPos: V(0, 1, 0), wantVel: V(0, 0, 0),
		},
		{
			name:    "upward velocity is kept",
			body:    NewBody(V(0, -0.5, 0), 1, WithVelocity(V(0, 2, 0))),
			wantPos: V(0, 0, 0), wantVel: V(0, 2, 0),
		},
		{
			name:    "above floor untouched",
			body:    NewBody(V(0, 3, 0), 1, WithVelocity(V(0, -2, 0))),
			wantPos: V(0, 3, 0), wantVel: V(0, -2, 0),
		},
		{
			name:    "raised floor",
			body:    NewBody(V(0, 1, 0), 1, WithVelocity(V(0, -1, 0))),
			floor:   2,
			wantPos: V(0, 2, 0), wantVel: V(0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := staticWorld()
			id := w.AddBody(tt.body)
			w.AddConstraint(NewGround(id, tt.floor))
			w.relax(1.0 / 60)

			b := w.Body(id)
			if !b.Position.ApproxEqual(tt.wantPos, 1e-12) {
				t.Errorf("expected position %v, got %v", tt.wantPos, b.Position)
			}
			if !b.Velocity.ApproxEqual(tt.wantVel, 1e-12) {
				t.Errorf("expected velocity %v, got %v", tt.wantVel, b.Velocity)
			}
		})
	}
}

func TestBouncyGround_Solve(t *testing.T) {
	w := staticWorld()
	id := w.AddBody(NewBody(V(0, 0.5, 0), 1, WithHalfExtents(V(1, 1, 1)), WithVelocity(V(2, -5, 0))))
	w.AddConstraint(NewBouncyGround(id, 0, 0.4))
	w.relax(1.0 / 60)

	b := w.Body(id)
	if math.Abs(b.Position.Y()-1) > 1e-12 {
		t.Errorf("expected y=1, got %v", b.Position.Y())
	}
	if math.Abs(b.Velocity.Y()-2) > 1e-12 {
		t.Errorf("expected reflected vy=2, got %v", b.Velocity.Y())
	}
	if b.Velocity.X() != 2 {
		t.Errorf("horizontal velocity should be untouched, got %v", b.Velocity.X())
	}
}

func TestBouncyGround_ZeroRestitutionMatchesGround(t *testing.T) {
	start := NewBody(V(0, -0.25, 0), 1, WithVelocity(V(0, -4, 0)))

	w1 := staticWorld()
	a := w1.AddBody(start)
	w1.AddConstraint(NewBouncyGround(a, 0, 0))
	w1.relax(0)

	w2 := staticWorld()
	b := w2.AddBody(start)
	w2.AddConstraint(NewGround(b, 0))
	w2.relax(0)

	if w1.Body(a).Position != w2.Body(b).Position {
		t.Errorf("positions differ: %v vs %v", w1.Body(a).Position, w2.Body(b).Position)
	}
	if math.Abs(w1.Body(a).Velocity.Y()) != 0 {
		t.Errorf("expected vy=0, got %v", w1.Body(a).Velocity.Y())
	}
}

func TestConstraintKind(t *testing.T) {
	tests := []struct {
		c    Constraint
		kind string
		n    int
	}{
		{NewDistance(0, 1, 1, 1), "distance", 2},
		{NewGround(0, 0), "ground", 1},
		{NewBouncyGround(0, 0, 0.4), "bouncy_ground", 1},
	}
	for _, tt := range tests {
		if got := tt.c.Kind().String(); got != tt.kind {
			t.Errorf("expected kind %s, got %s", tt.kind, got)
		}
		if got := len(tt.c.Bodies()); got != tt.n {
			t.Errorf("%s: expected %d bodies, got %d", tt.kind, tt.n, got)
		}
	}
}
