package modem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/logger"
)

// Default timings.
const (
	DefaultCommandTimeout = clock.Milliseconds(300)
	DefaultSubmitTimeout  = clock.Seconds(10)
	DefaultPowerPulse     = clock.Seconds(2)
	DefaultPowerSettle    = clock.Seconds(1)
)

// Options are the driver timings. Zero fields take the defaults.
type Options struct {
	// CommandTimeout is the window for ordinary commands.
	CommandTimeout clock.Duration
	// SubmitTimeout is the window for an SMS submit, which waits on the network.
	SubmitTimeout clock.Duration
	// PowerPulse is how long the power key is held high.
	PowerPulse clock.Duration
	// PowerSettle is the pause after releasing the power key.
	PowerSettle clock.Duration
}

func (o Options) withDefaults() Options {
	if o.CommandTimeout == nil || o.CommandTimeout.Ticks() == 0 {
		o.CommandTimeout = DefaultCommandTimeout
	}

	if o.SubmitTimeout == nil || o.SubmitTimeout.Ticks() == 0 {
		o.SubmitTimeout = DefaultSubmitTimeout
	}

	if o.PowerPulse == nil || o.PowerPulse.Ticks() == 0 {
		o.PowerPulse = DefaultPowerPulse
	}

	if o.PowerSettle == nil || o.PowerSettle.Ticks() == 0 {
		o.PowerSettle = DefaultPowerSettle
	}

	return o
}

// Segment is one SMS-SUBMIT PDU.
type Segment struct {
	// TPDULength is the octet count announced in AT+CMGS.
	TPDULength int
	// PDU is the hex-encoded PDU including the SMSC prefix.
	PDU string
}

// Message is an alert ready to submit, one segment per CMGS exchange.
type Message struct {
	Segments []Segment
}

// Driver talks to one modem. It is not safe for concurrent use.
type Driver struct {
	transport Transport
	key       PowerKey
	src       clock.Source
	timer     *clock.Timer
	opts      Options

	// powered is set by a successful PowerOn and cleared by PowerOff.
	powered bool
	// status is the outcome of the last powered operation.
	status Status
	// phase is the next CheckOnline step.
	phase checkPhase
}

// New returns a driver for the modem behind transport and key.
func New(transport Transport, key PowerKey, src clock.Source, opts Options) *Driver {
	return &Driver{
		transport: transport,
		key:       key,
		src:       src,
		timer:     clock.NewTimer(src),
		opts:      opts.withDefaults(),
	}
}

// Status returns the outcome of the last powered operation.
func (d *Driver) Status() Status {
	return d.status
}

// Powered reports whether PowerOn succeeded and PowerOff has not run since.
func (d *Driver) Powered() bool {
	return d.powered
}

// PowerOn makes sure the modem is running, pulsing the power key if the
// probe stays unanswered.
func (d *Driver) PowerOn(ctx context.Context) error {
	if _, err := d.request(ctx, cmdProbe, d.opts.CommandTimeout); err == nil {
		d.powered = true
		d.status = StatusUnknown

		return nil
	}

	if err := d.pulse(); err != nil {
		d.status = StatusNoAnswer
		return fmt.Errorf("power on: %w", err)
	}

	if _, err := d.request(ctx, cmdProbe, d.opts.CommandTimeout); err != nil {
		d.status = statusOf(err)
		return fmt.Errorf("power on: %w", err)
	}

	d.powered = true
	d.status = StatusUnknown

	return nil
}

// Configure puts the modem in PDU mode, sets the link mode and checks the SIM.
func (d *Driver) Configure(ctx context.Context) error {
	if !d.powered {
		return ErrNotPowered
	}

	for _, cmd := range []string{cmdPDUMode, cmdLinkMode} {
		if _, err := d.request(ctx, cmd, d.opts.CommandTimeout); err != nil {
			d.status = statusOf(err)
			return fmt.Errorf("configure %s: %w", cmd, err)
		}
	}

	answer, err := d.request(ctx, cmdSimStatus, d.opts.CommandTimeout)

	switch {
	case errors.Is(err, ErrAnswerError):
		err = fmt.Errorf("%w: %w", ErrNoSim, err)
	case err == nil && !simReady(answer.Raw):
		err = fmt.Errorf("%w: %q", ErrNoSim, answer.Raw)
	}

	d.status = statusOf(err)
	if err != nil {
		return fmt.Errorf("configure %s: %w", cmdSimStatus, err)
	}

	return nil
}

// PowerOff switches the modem off if it still answers. It never fails: a
// silent modem is treated as already off.
func (d *Driver) PowerOff(ctx context.Context) {
	if _, err := d.request(ctx, cmdProbe, d.opts.CommandTimeout); err == nil {
		if err = d.pulse(); err != nil {
			logger.WarnKV(ctx, "power key failed during power off", "error", err)
		}
	}

	d.powered = false
}

// SendAlert submits every segment of msg. The modem must be configured.
func (d *Driver) SendAlert(ctx context.Context, msg Message) error {
	if !d.powered {
		return ErrNotPowered
	}

	if d.status != StatusGood {
		return ErrNotReady
	}

	if len(msg.Segments) == 0 {
		d.status = statusOf(ErrBadRequest)
		return fmt.Errorf("send alert: %w", ErrBadRequest)
	}

	for i, seg := range msg.Segments {
		if err := d.sendSegment(ctx, seg); err != nil {
			d.status = statusOf(err)
			return fmt.Errorf("send alert segment %d of %d: %w", i+1, len(msg.Segments), err)
		}
	}

	d.status = StatusGood

	return nil
}

func (d *Driver) sendSegment(ctx context.Context, seg Segment) error {
	header, err := sendHeader(seg.TPDULength)
	if err != nil {
		return err
	}

	payload, err := sendPayload(seg.PDU)
	if err != nil {
		return err
	}

	// The header's answer is awaited but not checked.
	if _, err = d.exchange(ctx, header, d.opts.CommandTimeout); err != nil {
		logger.DebugKV(ctx, "send header not acknowledged", "error", err)
	}

	_, err = d.exchange(ctx, payload, d.opts.SubmitTimeout)

	return err
}

func (d *Driver) pulse() error {
	if err := d.key.Out(gpio.High); err != nil {
		return fmt.Errorf("drive power key high: %w", err)
	}

	d.timer.Wait(d.opts.PowerPulse)

	if err := d.key.Out(gpio.Low); err != nil {
		return fmt.Errorf("drive power key low: %w", err)
	}

	d.timer.Wait(d.opts.PowerSettle)

	return nil
}

func (d *Driver) request(ctx context.Context, cmd string, timeout clock.Duration) (Answer, error) {
	payload, err := command(cmd)
	if err != nil {
		return Answer{}, err
	}

	return d.exchange(ctx, payload, timeout)
}

// exchange writes payload and gathers the response until it is final or
// the window closes.
func (d *Driver) exchange(ctx context.Context, payload []byte, timeout clock.Duration) (Answer, error) {
	d.transport.BeginReceive()

	if err := d.transport.Write(payload); err != nil {
		return Answer{}, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	var (
		window = clock.NewTimer(d.src)
		resp   []byte
	)

	for {
		remaining := window.Remaining(timeout)
		if remaining == 0 {
			break
		}

		chunk, ok := d.transport.ReceiveWithTimeout(remaining)
		if !ok {
			break
		}

		resp = append(resp, chunk...)

		if answer := Classify(resp, len(resp)); answer.Final() {
			return answer, d.logged(ctx, payload, answer)
		}

		d.transport.BeginReceive()
	}

	if len(resp) == 0 {
		logger.DebugKV(ctx, "modem timeout", "command", printable(payload))
		return Answer{}, ErrTimeout
	}

	answer := Classify(resp, len(resp))

	return answer, d.logged(ctx, payload, answer)
}

func (d *Driver) logged(ctx context.Context, payload []byte, answer Answer) error {
	err := answer.Err()
	if err != nil {
		logger.DebugKV(ctx, "modem exchange failed",
			"command", printable(payload),
			"answer", answer.Kind.String(),
			"error", err)
	}

	return err
}

// simReady reports whether a +CPIN answer, if present, says READY.
func simReady(raw string) bool {
	for line := range strings.Lines(raw) {
		line = strings.TrimSpace(line)

		status, found := strings.CutPrefix(line, "+CPIN:")
		if found {
			return strings.TrimSpace(status) == "READY"
		}
	}

	return true
}

func printable(payload []byte) string {
	return string(bytes.TrimRight(payload, "\r\n\x1a"))
}
