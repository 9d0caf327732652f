package firmware

import (
	"context"
	"fmt"

	"github.com/oshokin/door-alarm/internal/alert"
	"github.com/oshokin/door-alarm/internal/api/grpc/health"
	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/domain/alarm"
	"github.com/oshokin/door-alarm/internal/indication"
	"github.com/oshokin/door-alarm/internal/input"
	"github.com/oshokin/door-alarm/internal/logger"
	"github.com/oshokin/door-alarm/internal/modem"
	"github.com/oshokin/door-alarm/internal/repository/status"
	"github.com/oshokin/door-alarm/internal/security"
	"github.com/oshokin/door-alarm/internal/service/common"
	"github.com/oshokin/door-alarm/internal/transport"
	"github.com/oshokin/door-alarm/internal/version"
)

// Options controls the controller process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// HealthAddress overrides the configured health listen address.
	HealthAddress string
	// StatusFile overrides the configured status snapshot path.
	StatusFile string
	// Trace turns on serial wire tracing regardless of the settings.
	Trace bool
}

// Run opens the hardware and runs the controller loop until ctx is cancelled.
//
//nolint:funlen // Linear wiring; splitting it would only move the defers around.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "door-alarm")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	applyOverrides(cfg, opts)

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	} else {
		logger.WarnKV(ctx, "Unknown log level, keeping the default", "log_level", cfg.LogLevel)
	}

	message, err := alert.Encode(cfg.Alert.Phone, cfg.Alert.Message)
	if err != nil {
		return fmt.Errorf("prepare alert: %w", err)
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
		Trace:    cfg.Serial.Trace,
		Attempts: cfg.Serial.OpenAttempts,
	})
	if err != nil {
		return err
	}

	line := transport.New(ctx, port, tick, transport.WithBufferSize(cfg.Serial.ReceiveBuffer))

	defer func() {
		if closeErr := line.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close modem line", "error", closeErr)
		}
	}()

	driver := modem.New(line, pins.PowerKey, tick, ModemOptions(cfg))

	views := security.Views{
		indication.NewLED(pins.LEDRed, pins.LEDGreen, tick),
		status.NewView(status.NewFileRepository(cfg.StatusFile)),
	}

	served := make(chan error, 1)

	if cfg.HealthAddress != "" {
		hv := health.NewView()
		views = append(views, hv)

		go func() {
			serveErr := health.Serve(ctx, cfg.HealthAddress, hv)
			if serveErr != nil {
				logger.ErrorKV(ctx, "Health endpoint failed", "error", serveErr)
			}

			served <- serveErr
		}()
	} else {
		served <- nil
	}

	machine := security.New(security.Deps{
		Modem:  driver,
		Button: input.NewButton(pins.Button, tick, ButtonOptions(cfg)...),
		Door:   input.NewDoorSensor(pins.Door, tick, DoorOptions(cfg)...),
		View:   views,
		Clock:  tick,
		Alert:  message,
	}, MachineOptions(cfg))

	logger.InfoKV(ctx, "Controller starting", append(version.Fields(),
		"serial_port", cfg.Serial.Port,
		"status_file", cfg.StatusFile,
		"health_address", cfg.HealthAddress)...)

	controller := &Controller{
		Alarm: machine,
		Modem: driver,
		View:  views,
		Clock: tick,
	}
	controller.Run(ctx)

	if err = <-served; err != nil {
		return fmt.Errorf("health endpoint: %w", err)
	}

	return nil
}

func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.HealthAddress != "" {
		cfg.HealthAddress = opts.HealthAddress
	}

	if opts.StatusFile != "" {
		cfg.StatusFile = opts.StatusFile
	}

	if opts.Trace {
		cfg.Serial.Trace = true
	}
}

// Alarm is the state machine driven by the loop.
type Alarm interface {
	Init(ctx context.Context)
	Poll(ctx context.Context)
}

// ModemSwitch powers the modem down on exit.
type ModemSwitch interface {
	PowerOff(ctx context.Context)
}

// Controller is the foreground loop.
type Controller struct {
	Alarm Alarm
	Modem ModemSwitch
	View  security.View
	Clock clock.Source
}

// Run initializes the alarm and polls it, idling between ticks, until ctx
// is cancelled. On exit the modem is switched off and the view cleared.
func (c *Controller) Run(ctx context.Context) {
	c.Alarm.Init(ctx)

	for ctx.Err() == nil {
		c.Alarm.Poll(ctx)
		c.Clock.Idle()
	}

	// Shutdown work must not inherit the cancellation.
	stopCtx := context.WithoutCancel(ctx)

	logger.Info(stopCtx, "Controller stopping")

	c.Modem.PowerOff(stopCtx)
	c.View.SetState(stopCtx, alarm.Nothing)
	c.View.Poll(stopCtx)
}
