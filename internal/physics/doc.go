// Package physics provides the vehicle model driven by the line follower.
//
// [DiffDrive] implements [dynamo.System] for a two-wheeled differential
// drive robot whose motors respond to commands with a first-order lag.
// It also implements [dynamo.Configurable] for runtime parameter tuning.
package physics
