// Package checker implements the check subcommand: a single modem online
// check run outside the controller loop.
package checker
