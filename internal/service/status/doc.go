// Package status implements the status subcommand. It prints the last
// snapshot written by the controller and, when an address is known, the
// live health of the running controller.
package status
