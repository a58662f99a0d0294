// Package viz is the terminal viewer for running scenes.
//
// [Model] steps one scene at 60 Hz and draws it on a braille [Canvas]
// through a perspective [Camera]: distance constraints as lines, boxed
// bodies as wireframes, point bodies as crosses, and a trail behind the
// focus body. [Picker] is a preset menu that opens a Model.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the scene
//	→     - Kick the ball sideways
//	Tab   - Cycle parameters, ↑/↓ to tune
//	X/Y   - Orbit the camera, +/- to zoom
//	T     - Cycle color themes
package viz
