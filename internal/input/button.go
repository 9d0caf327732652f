package input

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/door-alarm/internal/clock"
)

// DefaultButtonPeriod is the button sampling interval.
const DefaultButtonPeriod = clock.Milliseconds(25)

// Button is the arm/disarm push button. Released reads high.
type Button struct {
	// pin is the raw button input.
	pin Pin
	// timer gates sampling to period.
	timer *clock.Timer
	// period is the sampling interval.
	period clock.Duration
	// debouncer tracks the confirmed button level.
	debouncer *Debouncer
}

// Option configures an input.
type Option func(*options)

type options struct {
	period  clock.Duration
	samples uint8
}

// WithPeriod overrides the sampling interval.
func WithPeriod(period clock.Duration) Option {
	return func(o *options) {
		if period != nil && period.Ticks() > 0 {
			o.period = period
		}
	}
}

// WithSamples overrides the debounce run length.
func WithSamples(samples uint8) Option {
	return func(o *options) {
		if samples > 0 {
			o.samples = samples
		}
	}
}

func applyOptions(period clock.Duration, opts []Option) options {
	o := options{
		period:  period,
		samples: DefaultSamples,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// NewButton returns a button read from pin.
func NewButton(pin Pin, src clock.Source, opts ...Option) *Button {
	o := applyOptions(DefaultButtonPeriod, opts)

	return &Button{
		pin:       pin,
		timer:     clock.NewTimer(src),
		period:    o.period,
		debouncer: NewDebouncer(gpio.High, o.samples),
	}
}

// SampleEdge samples the pin when due and reports a confirmed press.
// Releases are tracked but never reported.
func (b *Button) SampleEdge() bool {
	if !b.timer.Every(b.period) {
		return false
	}

	if !b.debouncer.Sample(b.pin.Read()) {
		return false
	}

	return b.debouncer.Level() == gpio.Low
}

// IsClosed reports the raw, undebounced contact state.
func (b *Button) IsClosed() bool {
	return b.pin.Read() == gpio.Low
}
