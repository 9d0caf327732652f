package input

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/door-alarm/internal/clock"
)

// DefaultDoorPeriod is the door sensor sampling interval.
const DefaultDoorPeriod = clock.Milliseconds(1_000)

// DoorEvent is a confirmed door sensor edge.
type DoorEvent uint8

const (
	// DoorUnchanged means no edge was confirmed.
	DoorUnchanged DoorEvent = iota
	// DoorOpened means the door has been confirmed open.
	DoorOpened
	// DoorClosed means the door has been confirmed closed.
	DoorClosed
)

// String returns the event name.
func (e DoorEvent) String() string {
	switch e {
	case DoorOpened:
		return "opened"
	case DoorClosed:
		return "closed"
	default:
		return "unchanged"
	}
}

// DoorSensor is the reed switch on the door. An open door reads high.
type DoorSensor struct {
	// pin is the raw reed switch input.
	pin Pin
	// timer gates sampling to period.
	timer *clock.Timer
	// period is the sampling interval.
	period clock.Duration
	// debouncer tracks the confirmed door level.
	debouncer *Debouncer
}

// NewDoorSensor returns a door sensor read from pin. The confirmed level
// starts at whatever the pin reads now.
func NewDoorSensor(pin Pin, src clock.Source, opts ...Option) *DoorSensor {
	o := applyOptions(DefaultDoorPeriod, opts)

	return &DoorSensor{
		pin:       pin,
		timer:     clock.NewTimer(src),
		period:    o.period,
		debouncer: NewDebouncer(pin.Read(), o.samples),
	}
}

// SampleEdge samples the pin when due and reports a confirmed edge.
func (d *DoorSensor) SampleEdge() DoorEvent {
	if !d.timer.Every(d.period) {
		return DoorUnchanged
	}

	if !d.debouncer.Sample(d.pin.Read()) {
		return DoorUnchanged
	}

	if d.debouncer.Level() == gpio.High {
		return DoorOpened
	}

	return DoorClosed
}

// IsOpen reports the raw, undebounced door state.
func (d *DoorSensor) IsOpen() bool {
	return d.pin.Read() == gpio.High
}

// IsClosed reports the raw, undebounced door state.
func (d *DoorSensor) IsClosed() bool {
	return !d.IsOpen()
}
