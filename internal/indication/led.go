// Package indication shows the alarm state on a red and a green LED.
package indication

import (
	"context"

	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/domain/alarm"
	"github.com/oshokin/door-alarm/internal/logger"
)

// BlinkPeriod is the LED animation cadence.
const BlinkPeriod = clock.Seconds(1)

// Pin is an LED output.
type Pin interface {
	Out(l gpio.Level) error
}

// pattern is the initial LED levels of a state and which LEDs toggle.
type pattern struct {
	red, green           bool
	blinkRed, blinkGreen bool
}

//nolint:gochecknoglobals // Lookup table.
var patterns = map[alarm.Display]pattern{
	alarm.Nothing:           {},
	alarm.Idle:              {green: true},
	alarm.IdleDoorClosed:    {green: true, blinkGreen: true},
	alarm.CheckingBeforeArm: {red: true, blinkRed: true, blinkGreen: true},
	alarm.ReadyToArm:        {green: true, blinkRed: true},
	alarm.Armed:             {red: true, green: true},
	alarm.Alerting:          {red: true, blinkRed: true},
	alarm.Error:             {blinkRed: true, blinkGreen: true},
}

// LED drives the two indicator LEDs.
type LED struct {
	red, green Pin
	timer      *clock.Timer

	state   alarm.Display
	changed bool

	redOn, greenOn bool
}

// NewLED returns an LED view showing Nothing.
func NewLED(red, green Pin, src clock.Source) *LED {
	return &LED{
		red:     red,
		green:   green,
		timer:   clock.NewTimer(src),
		state:   alarm.Nothing,
		changed: true,
	}
}

// SetState selects the pattern shown from the next Poll on.
func (l *LED) SetState(_ context.Context, state alarm.Display) {
	if state != l.state {
		l.changed = true
	}

	l.state = state
}

// Poll applies a new pattern at once and otherwise advances the blink
// animation every BlinkPeriod.
func (l *LED) Poll(ctx context.Context) {
	p := patterns[l.state]

	if l.changed {
		l.changed = false
		l.timer.Mark()
		l.set(ctx, p.red, p.green, true)

		return
	}

	if !l.timer.Every(BlinkPeriod) {
		return
	}

	l.set(ctx, l.redOn != p.blinkRed, l.greenOn != p.blinkGreen, false)
}

// Lit reports the levels last written to the red and green LEDs.
func (l *LED) Lit() (red, green bool) {
	return l.redOn, l.greenOn
}

func (l *LED) set(ctx context.Context, red, green, force bool) {
	if force || red != l.redOn {
		l.write(ctx, "red", l.red, red)
	}

	if force || green != l.greenOn {
		l.write(ctx, "green", l.green, green)
	}

	l.redOn, l.greenOn = red, green
}

func (l *LED) write(ctx context.Context, name string, pin Pin, on bool) {
	if err := pin.Out(gpio.Level(on)); err != nil {
		logger.WarnKV(ctx, "failed to drive LED", "led", name, "error", err)
	}
}
