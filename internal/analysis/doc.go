// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: how fast a body sways
//   - [PhasePortrait]: position against velocity on one axis
//
// The puppet rig's torso should sway at the bar drive frequency:
//
//	xs := result.Series(physics.Torso, 0)
//	hz := analysis.DominantFrequency(xs, dt*float64(cfg.RecordEvery))
//	// hz ≈ drive.SwayFrequency / (2π)
package analysis
