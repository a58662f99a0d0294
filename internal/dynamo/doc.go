// Package dynamo is the fixed-step physics core for articulated scenes.
//
// A [World] owns an arena of [Body] values addressed by [BodyID] handles and
// an ordered list of constraints drawn from a closed set:
//
//   - [Distance]: position-based link between two bodies (strings, bones)
//   - [Ground]: inelastic floor contact
//   - [BouncyGround]: floor contact with restitution
//
// Each [World.Step] runs semi-implicit Euler integration over the dynamic
// bodies, then relaxes every constraint exactly once in insertion order.
// Corrections land in place, so a constraint sees the writes of every
// constraint registered before it in the same tick.
//
// # Example
//
//	w := dynamo.NewWorld()
//	ball := w.AddBody(dynamo.NewBody(dynamo.V(0, 12, 0), 1,
//	    dynamo.WithHalfExtents(dynamo.V(1, 1, 1))))
//	w.AddConstraint(dynamo.NewBouncyGround(ball, 0, 0.4))
//	for i := 0; i < 480; i++ {
//	    w.Step(1.0 / 60)
//	}
//
// # Thread Safety
//
// A World is NOT thread-safe. Drive kinematic bodies and read state only
// between calls to Step, from the goroutine that owns the World.
package dynamo
