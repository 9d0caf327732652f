// Package input debounces the two physical inputs of the alarm: the power
// button and the door reed switch.
//
// Both are active-low pins with pull-ups. Each input samples its pin on its
// own interval and reports an edge only after a full run of consecutive
// samples disagreeing with the last confirmed level.
package input
