// Package physics provides the scenes driven by the simulator.
//
// Each scene wires bodies and constraints into a [dynamo.World] and
// implements [dynamo.Scene]:
//
//   - [Ball]: one box body dropping onto a bouncy floor
//   - [Puppet]: a marionette hung from a scripted, kinematic bar
//
// Both also implement [dynamo.Configurable] so world gravity, damping and
// the bar drive can be tuned while a scene runs.
//
// # Scripted Motion
//
// The puppet bar has no mass. [Puppet.Step] moves it along its [BarDrive]
// before every world step; the strings then pull head and hands after it:
//
//	rig := physics.NewPuppet()
//	for i := 0; i < 600; i++ {
//	    rig.Step(1.0 / 60)
//	}
//	pose := rig.Snapshot()
package physics
