package modem

import "errors"

// Status is the outcome of the most recent powered operation.
type Status uint8

const (
	// StatusUnknown means nothing has been tried since power-on.
	StatusUnknown Status = iota
	// StatusGood means the last exchange succeeded.
	StatusGood
	// StatusNoAnswer means the modem stayed silent or only echoed.
	StatusNoAnswer
	// StatusBadAnswer means the modem answered with an error or garbage.
	StatusBadAnswer
	// StatusNoSim means the SIM check failed.
	StatusNoSim
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusNoAnswer:
		return "no answer"
	case StatusBadAnswer:
		return "bad answer"
	case StatusNoSim:
		return "no SIM"
	default:
		return "unknown"
	}
}

// statusOf folds an exchange error into a Status.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusGood
	case errors.Is(err, ErrNoSim):
		return StatusNoSim
	case errors.Is(err, ErrTimeout),
		errors.Is(err, ErrNoDevice),
		errors.Is(err, ErrNoAnswer):
		return StatusNoAnswer
	default:
		return StatusBadAnswer
	}
}
