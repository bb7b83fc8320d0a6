// Package viz renders a running line-follower simulation in the terminal.
//
// The live view is a Bubble Tea program: the course is drawn on a
// Braille [Canvas] with the vehicle, its trail and its photoreflectors on
// top, next to a panel showing sensor readings, motor commands and the
// controller's tunable gains.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	Tab   - Cycle controller parameters
//	Up/K  - Increase parameter (+5%)
//	Down/J- Decrease parameter (-5%)
//	S     - Save the current frame as SVG
//	?     - Show help overlay
package viz
