// Package common holds helpers shared by several services.
//
// It opens the hardware (GPIO pins and the modem serial port) and provides a
// small gRPC health client used to probe a running controller.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
