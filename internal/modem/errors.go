package modem

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the modem sent nothing within the command window.
	ErrTimeout = errors.New("modem timeout")
	// ErrNoDevice is returned when the response holds no line break at all.
	ErrNoDevice = errors.New("no modem on the line")
	// ErrNoAnswer is returned when the modem echoed the command and said nothing else.
	ErrNoAnswer = errors.New("modem echoed without answering")
	// ErrAnswerError is returned when the modem rejected the command.
	ErrAnswerError = errors.New("modem answered with error")
	// ErrAnswerUnknown is returned when the answer is neither OK nor an error.
	ErrAnswerUnknown = errors.New("unrecognized modem answer")
	// ErrNoSim is returned when the SIM is missing or locked.
	ErrNoSim = errors.New("SIM card not ready")
	// ErrBadRequest is returned when a command does not fit the command buffer.
	ErrBadRequest = errors.New("command does not fit the request buffer")
	// ErrNotPowered is returned when an operation needs PowerOn first.
	ErrNotPowered = errors.New("modem is not powered")
	// ErrNotReady is returned when sending is attempted before a good configuration.
	ErrNotReady = errors.New("modem is not configured")
)

// UnknownAnswerError carries the raw text of an unrecognized answer.
type UnknownAnswerError struct {
	// Raw is the response as received.
	Raw string
}

// Error implements error.
func (e *UnknownAnswerError) Error() string {
	return fmt.Sprintf("%s: %q", ErrAnswerUnknown, e.Raw)
}

// Unwrap makes errors.Is match ErrAnswerUnknown.
func (e *UnknownAnswerError) Unwrap() error {
	return ErrAnswerUnknown
}
