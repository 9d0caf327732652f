package input

import "periph.io/x/conn/v3/gpio"

// DefaultSamples is the number of consecutive disagreeing samples required
// before a level change is accepted.
const DefaultSamples = 3

// Pin is the part of gpio.PinIn the inputs read.
type Pin interface {
	Read() gpio.Level
}

// Debouncer confirms level changes of a sampled signal.
//
// The counter saturates in [0, samples]. A sample agreeing with the
// confirmed level resets it, a disagreeing one decrements it, and reaching
// zero flips the confirmed level.
type Debouncer struct {
	// samples is the run length required to accept a change.
	samples uint8
	// count is the remaining number of disagreeing samples before an edge.
	count uint8
	// level is the last confirmed level.
	level gpio.Level
}

// NewDebouncer returns a debouncer confirmed at initial. Zero samples is
// replaced with DefaultSamples.
func NewDebouncer(initial gpio.Level, samples uint8) *Debouncer {
	if samples == 0 {
		samples = DefaultSamples
	}

	return &Debouncer{
		samples: samples,
		count:   samples,
		level:   initial,
	}
}

// Sample feeds one reading and reports whether it completed a level change.
func (d *Debouncer) Sample(level gpio.Level) bool {
	if level == d.level {
		d.count = d.samples
		return false
	}

	d.count--
	if d.count > 0 {
		return false
	}

	d.level = level
	d.count = d.samples

	return true
}

// Level returns the last confirmed level.
func (d *Debouncer) Level() gpio.Level {
	return d.level
}
