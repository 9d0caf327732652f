package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Display is the state shown to the user.
type Display uint8

const (
	// Nothing blanks every indicator.
	Nothing Display = iota
	// Idle means disarmed with the door open.
	Idle
	// IdleDoorClosed means disarmed with the door closed.
	IdleDoorClosed
	// CheckingBeforeArm means the modem is being checked before arming.
	CheckingBeforeArm
	// ReadyToArm means the check passed and closing the door arms the alarm.
	ReadyToArm
	// Armed means opening the door sends an alert.
	Armed
	// Alerting means an alert is being sent.
	Alerting
	// Error means the last modem check failed.
	Error
)

// ErrUnknownDisplay is returned by ParseDisplay for unrecognized names.
var ErrUnknownDisplay = errors.New("unknown display state")

var displayNames = [...]string{
	Nothing:           "nothing",
	Idle:              "idle",
	IdleDoorClosed:    "idle_door_closed",
	CheckingBeforeArm: "checking_before_arm",
	ReadyToArm:        "ready_to_arm",
	Armed:             "armed",
	Alerting:          "alerting",
	Error:             "error",
}

// String returns the stable snake_case name of d.
func (d Display) String() string {
	if int(d) < len(displayNames) {
		return displayNames[d]
	}

	return fmt.Sprintf("display(%d)", uint8(d))
}

// ParseDisplay is the inverse of Display.String. Matching ignores case and
// surrounding spaces.
func ParseDisplay(s string) (Display, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for d, name := range displayNames {
		if name == s {
			return Display(d), nil
		}
	}

	return Nothing, fmt.Errorf("%w: %q", ErrUnknownDisplay, s)
}

// Snapshot is the state last published to operators.
type Snapshot struct {
	// Display is the state on the indicators.
	Display Display
	// ChangedAt is when Display was entered.
	ChangedAt time.Time
}

// Clone returns a copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}
