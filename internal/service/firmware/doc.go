// Package firmware wires configuration, hardware and the security machine
// into the controller loop run by the door-alarm binary.
package firmware
