// Package health exposes the alarm state through the standard gRPC health
// service so supervisors can probe the controller.
//
// The overall service ("") and the named door-alarm service both report
// SERVING while the alarm works, NOT_SERVING while the modem is in error and
// UNKNOWN before the first state is known.
package health
