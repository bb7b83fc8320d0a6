// Package control provides the feedback controllers that steer the vehicle.
//
// Controllers read a bound [sensor.Array] and return a motor command pair
// (left, right), each saturated to [-1,1]:
//
//   - [LineFollower]: fixed 2x4 linear map from photoreflectors to motors
//   - [PID]: steering on the line's lateral position under the bar
//   - [None]: motors off
//
// # Usage
//
//	prs := sensor.NewArray(sensor.DefaultSpacing, sensor.DefaultForward)
//	lf := control.NewLineFollower(prs)
//	left, right, err := lf.Compute()
//
// All controllers implement [dynamo.Controller] through Command, so they
// can be handed to [dynamo.New]. Controllers implementing
// [dynamo.Configurable] support live tuning.
package control
