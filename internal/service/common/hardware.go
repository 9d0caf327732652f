//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/warthog618/modem/trace"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/logger"
)

// ErrPinNotFound is returned when a configured GPIO name is unknown to the host.
var ErrPinNotFound = errors.New("gpio pin not found")

// Pins are the GPIO lines of the controller.
type Pins struct {
	Button   gpio.PinIO
	Door     gpio.PinIO
	PowerKey gpio.PinIO
	LEDRed   gpio.PinIO
	LEDGreen gpio.PinIO
}

// OpenPins initializes the host drivers and configures every pin: inputs
// with pull-ups, outputs driven low.
func OpenPins(ctx context.Context, names config.Pins) (*Pins, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("initialize host drivers: %w", err)
	}

	logger.DebugKV(ctx, "Host drivers loaded", "count", len(state.Loaded))

	var pins Pins

	inputs := []struct {
		name string
		pin  *gpio.PinIO
	}{
		{names.Button, &pins.Button},
		{names.Door, &pins.Door},
	}

	for _, in := range inputs {
		p, err := lookupPin(in.name)
		if err != nil {
			return nil, err
		}

		if err = p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure input %s: %w", in.name, err)
		}

		*in.pin = p
	}

	outputs := []struct {
		name string
		pin  *gpio.PinIO
	}{
		{names.PowerKey, &pins.PowerKey},
		{names.LEDRed, &pins.LEDRed},
		{names.LEDGreen, &pins.LEDGreen},
	}

	for _, out := range outputs {
		p, err := lookupPin(out.name)
		if err != nil {
			return nil, err
		}

		if err = p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("configure output %s: %w", out.name, err)
		}

		*out.pin = p
	}

	return &pins, nil
}

func lookupPin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}

	return p, nil
}

// Opener opens a serial port. serial.Open is the production opener.
type Opener func(name string, mode *serial.Mode) (serial.Port, error)

// SerialOptions describe how the modem line is opened.
type SerialOptions struct {
	// Name is the serial device.
	Name string
	// BaudRate is the line speed.
	BaudRate int
	// IdleGap becomes the port read timeout.
	IdleGap time.Duration
	// Trace wraps the port in a wire tracer logging at debug level.
	Trace bool
	// Attempts is how many times a failed open is retried.
	Attempts uint64
	// Open overrides serial.Open.
	Open Opener
	// BackOff overrides the exponential retry delay.
	BackOff backoff.BackOff
}

// SerialPort is an opened modem line.
type SerialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	Drain() error
}

// OpenSerial opens the modem line, retrying while the device is not there
// yet, and sets its read timeout to the idle gap.
func OpenSerial(ctx context.Context, opts SerialOptions) (SerialPort, error) {
	open := opts.Open
	if open == nil {
		open = serial.Open
	}

	delay := opts.BackOff
	if delay == nil {
		delay = backoff.NewExponentialBackOff()
	}

	mode := &serial.Mode{BaudRate: opts.BaudRate}

	var port serial.Port

	err := backoff.RetryNotify(func() error {
		var err error

		port, err = open(opts.Name, mode)

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(delay, opts.Attempts), ctx),
		func(err error, next time.Duration) {
			logger.WarnKV(ctx, "Serial port not ready", "port", opts.Name, "retry_in", next, "error", err)
		})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", opts.Name, err)
	}

	if err = port.SetReadTimeout(opts.IdleGap); err != nil {
		_ = port.Close() //nolint:errcheck // The timeout error is the one worth reporting.

		return nil, fmt.Errorf("set read timeout on %s: %w", opts.Name, err)
	}

	if !opts.Trace {
		return port, nil
	}

	return &tracedPort{
		Trace: trace.New(port, trace.WithLogger(logger.TraceLog(ctx))),
		port:  port,
	}, nil
}

// tracedPort logs the traffic of port.
type tracedPort struct {
	*trace.Trace

	port serial.Port
}

// Close closes the underlying port.
func (p *tracedPort) Close() error {
	return p.port.Close()
}

// Drain waits for the underlying port's output to be sent.
func (p *tracedPort) Drain() error {
	return p.port.Drain()
}
