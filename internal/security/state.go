package security

import (
	"fmt"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/domain/alarm"
)

// Kind is the operating mode of the alarm.
type Kind uint8

const (
	// KindIdle is disarmed with the door open.
	KindIdle Kind = iota
	// KindIdleDoorClosed is disarmed with the door closed.
	KindIdleDoorClosed
	// KindCheckingBeforeArm runs the modem check requested by the button.
	KindCheckingBeforeArm
	// KindReadyToArm waits for the door to close.
	KindReadyToArm
	// KindArmed sends an alert when the door opens.
	KindArmed
	// KindError rechecks the modem with a growing interval.
	KindError
)

var kindDisplays = [...]alarm.Display{
	KindIdle:              alarm.Idle,
	KindIdleDoorClosed:    alarm.IdleDoorClosed,
	KindCheckingBeforeArm: alarm.CheckingBeforeArm,
	KindReadyToArm:        alarm.ReadyToArm,
	KindArmed:             alarm.Armed,
	KindError:             alarm.Error,
}

// Display returns the display state matching k.
func (k Kind) Display() alarm.Display {
	if int(k) < len(kindDisplays) {
		return kindDisplays[k]
	}

	return alarm.Nothing
}

// String returns the display name of k.
func (k Kind) String() string {
	return k.Display().String()
}

// State is the full operating state. Fields beyond Kind only matter for the
// kinds noted on them.
type State struct {
	// Kind is the operating mode.
	Kind Kind
	// RetryBudget is the number of alert attempts left to Armed.
	RetryBudget int
	// ReturnTo is where Error goes once a recheck passes.
	ReturnTo Kind
	// Backoff is the current recheck interval in Error.
	Backoff clock.Seconds
	// RecheckDue is set in Error once Backoff has elapsed.
	RecheckDue bool
}

// Display returns the display state matching s.
func (s State) Display() alarm.Display {
	return s.Kind.Display()
}

// String implements fmt.Stringer for logging.
func (s State) String() string {
	switch s.Kind {
	case KindArmed:
		return fmt.Sprintf("%s(budget=%d)", s.Kind, s.RetryBudget)
	case KindError:
		return fmt.Sprintf("%s(return_to=%s, backoff=%ds, recheck_due=%t)",
			s.Kind, s.ReturnTo, uint32(s.Backoff), s.RecheckDue)
	default:
		return s.Kind.String()
	}
}

// Event is an input to the state machine.
type Event uint8

const (
	// EventButtonPressed is a debounced button press.
	EventButtonPressed Event = iota
	// EventDoorOpened is a debounced door opening.
	EventDoorOpened
	// EventDoorClosed is a debounced door closing.
	EventDoorClosed
	// EventCheckPassed is a completed, successful modem check.
	EventCheckPassed
	// EventCheckFailed is a failed modem check.
	EventCheckFailed
	// EventTimerDue fires when the recheck interval elapses.
	EventTimerDue
)

var eventNames = [...]string{
	EventButtonPressed: "button_pressed",
	EventDoorOpened:    "door_opened",
	EventDoorClosed:    "door_closed",
	EventCheckPassed:   "check_passed",
	EventCheckFailed:   "check_failed",
	EventTimerDue:      "timer_due",
}

// String returns the event name.
func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}

	return fmt.Sprintf("event(%d)", uint8(e))
}
