// Package dynamo provides the fixed-step simulation loop that drives a
// vehicle model with a feedback controller.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [Perceiver]: sensing stage refreshed before each control tick
//   - [Controller]: feedback controller interface
//   - [Simulator]: orchestrates simulation runs
//
// Each tick runs perceive, command, observe, integrate in that order on one
// goroutine, so a controller never sees a half-updated sensor array.
//
// # Example
//
//	veh := physics.NewDiffDrive()
//	sim := dynamo.New(veh, integrators.NewRK4(), ctrl)
//	sim.SetPerceiver(rig)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type which builds one simulator per run.
package dynamo
