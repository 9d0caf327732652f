// Package clock provides the millisecond tick source and the interval timer
// built on top of it.
//
// The tick counter is a fixed-width value that wraps; all comparisons use
// unsigned subtraction so a wrap between Mark and Elapsed is harmless.
// Durations are a closed set of two units, Milliseconds and Seconds.
package clock
