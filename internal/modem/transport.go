package modem

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/door-alarm/internal/clock"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=modem

// Transport is the byte link to the modem.
type Transport interface {
	// Write sends p and returns once it has left the controller.
	Write(p []byte) error
	// BeginReceive arms a receive, abandoning any previous one.
	BeginReceive()
	// PollReceive returns the completed receive, if any.
	PollReceive() ([]byte, bool)
	// ReceiveWithTimeout waits up to d for the armed receive to complete.
	ReceiveWithTimeout(d clock.Duration) ([]byte, bool)
}

// PowerKey is the modem's PWRKEY line.
type PowerKey interface {
	Out(l gpio.Level) error
}
