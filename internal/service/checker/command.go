package checker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/logger"
	"github.com/oshokin/door-alarm/internal/modem"
	"github.com/oshokin/door-alarm/internal/service/common"
	"github.com/oshokin/door-alarm/internal/service/firmware"
	"github.com/oshokin/door-alarm/internal/transport"
)

// Options controls a one-off modem check.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Trace turns on serial wire tracing.
	Trace bool
	// Out receives the report.
	Out io.Writer
}

// ErrCheckFailed is returned when the modem did not pass the check.
var ErrCheckFailed = errors.New("modem check failed")

// Modem is the driver surface a check needs.
type Modem interface {
	CheckOnline(ctx context.Context) modem.Progress
	Status() modem.Status
	PowerOff(ctx context.Context)
}

// Run powers the modem on, configures it, powers it off and reports the result.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "door-alarm-check")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	tick := clock.StartSysTick()
	defer tick.Stop()

	pins, err := common.OpenPins(ctx, cfg.Pins)
	if err != nil {
		return fmt.Errorf("open pins: %w", err)
	}

	port, err := common.OpenSerial(ctx, common.SerialOptions{
		Name:     cfg.Serial.Port,
		BaudRate: cfg.Serial.BaudRate,
		IdleGap:  cfg.Serial.IdleGap,
		Trace:    cfg.Serial.Trace || opts.Trace,
		Attempts: cfg.Serial.OpenAttempts,
	})
	if err != nil {
		return err
	}

	line := transport.New(ctx, port, tick, transport.WithBufferSize(cfg.Serial.ReceiveBuffer))

	defer closeLine(ctx, line)

	driver := modem.New(line, pins.PowerKey, tick, firmware.ModemOptions(cfg))

	return Check(ctx, driver, opts.Out)
}

// Check drives one online check to completion and writes the outcome to out.
// A failed check leaves the modem on, so it is switched off here.
func Check(ctx context.Context, m Modem, out io.Writer) error {
	progress := m.CheckOnline(ctx)
	for progress == modem.ProgressPending {
		if ctx.Err() != nil {
			return fmt.Errorf("check interrupted: %w", ctx.Err())
		}

		progress = m.CheckOnline(ctx)
	}

	status := m.Status()

	if progress == modem.ProgressFailed {
		m.PowerOff(ctx)
	}

	logger.InfoKV(ctx, "Modem check finished", "result", progress.String(), "status", status.String())

	if out != nil {
		_, _ = fmt.Fprintf(out, "check: %s\nstatus: %s\n", progress, status)
	}

	if progress != modem.ProgressSucceeded {
		return fmt.Errorf("%w: %s", ErrCheckFailed, status)
	}

	return nil
}

func closeLine(ctx context.Context, line io.Closer) {
	if err := line.Close(); err != nil {
		logger.WarnKV(ctx, "Failed to close modem line", "error", err)
	}
}
