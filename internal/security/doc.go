// Package security is the alarm's state machine.
//
// Transitions come from a single table keyed by state kind and event. The
// Machine feeds it one event per tick (button first, then door, then the
// modem check or recheck timer) and performs the requested side effects:
// sending the alert when an armed door opens and timing modem rechecks while
// in Error.
package security
