package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the door alarm controller.
type Config struct {
	// Serial describes the modem line.
	Serial Serial `yaml:"serial"`
	// Pins names the GPIO lines in periph.io notation.
	Pins Pins `yaml:"pins"`
	// Modem holds the modem driver timings.
	Modem Modem `yaml:"modem"`
	// Alert is the SMS sent when an armed door opens.
	Alert Alert `yaml:"alert"`
	// Recheck is the modem recheck schedule while in error.
	Recheck Recheck `yaml:"recheck"`
	// Inputs holds the debouncing parameters.
	Inputs Inputs `yaml:"inputs"`
	// StatusFile is where the status snapshot is written.
	StatusFile string `yaml:"status_file"`
	// HealthAddress is the gRPC health listen address. Empty disables it.
	HealthAddress string `yaml:"health_address,omitempty"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`
}

// Serial describes the modem line.
type Serial struct {
	// Port is the serial device, e.g. /dev/ttyUSB0.
	Port string `yaml:"port"`
	// BaudRate is the line speed.
	BaudRate int `yaml:"baud_rate"`
	// ReceiveBuffer is the receive buffer capacity in bytes.
	ReceiveBuffer int `yaml:"receive_buffer"`
	// IdleGap is the silence that completes a receive.
	IdleGap time.Duration `yaml:"idle_gap"`
	// Trace logs every byte on the line at debug level.
	Trace bool `yaml:"trace"`
	// OpenAttempts is how many times opening the port is retried.
	OpenAttempts uint64 `yaml:"open_attempts"`
}

// Pins names the GPIO lines.
type Pins struct {
	// Button is the arm button input, active low.
	Button string `yaml:"button"`
	// Door is the door contact input, low while closed.
	Door string `yaml:"door"`
	// PowerKey drives the modem power key.
	PowerKey string `yaml:"power_key"`
	// LEDRed is the red indicator output.
	LEDRed string `yaml:"led_red"`
	// LEDGreen is the green indicator output.
	LEDGreen string `yaml:"led_green"`
}

// Modem holds the modem driver timings.
type Modem struct {
	// CommandTimeout bounds the answer to an ordinary AT command.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// SubmitTimeout bounds the answer to an SMS submit.
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
	// PowerPulse is how long the power key is held.
	PowerPulse time.Duration `yaml:"power_pulse"`
	// PowerSettle is the wait after a pulse before probing.
	PowerSettle time.Duration `yaml:"power_settle"`
	// RegistrationSettle is the wait for network registration before an alert.
	RegistrationSettle time.Duration `yaml:"registration_settle"`
}

// Alert is the SMS sent when an armed door opens.
type Alert struct {
	// Phone is the recipient in international format.
	Phone string `yaml:"phone"`
	// Message is the SMS text.
	Message string `yaml:"message"`
	// Retries is the number of delivery attempts.
	Retries int `yaml:"retries"`
}

// Recheck is the modem recheck schedule while in error.
type Recheck struct {
	// Initial is the first wait in Error.
	Initial time.Duration `yaml:"initial"`
	// Step is added to the wait after each failed recheck.
	Step time.Duration `yaml:"step"`
	// Max caps the wait.
	Max time.Duration `yaml:"max"`
}

// Inputs holds the debouncing parameters.
type Inputs struct {
	// ButtonPeriod is the button sampling interval.
	ButtonPeriod time.Duration `yaml:"button_period"`
	// DoorPeriod is the door sampling interval.
	DoorPeriod time.Duration `yaml:"door_period"`
	// Samples is how many equal samples make a level stable.
	Samples uint8 `yaml:"samples"`
}

const (
	// DefaultConfigFilename is the default filename for the settings.
	DefaultConfigFilename = "door-alarm-settings.yaml"

	// DefaultStatusFilename is the default filename for the status snapshot.
	DefaultStatusFilename = "door-alarm-status.json"

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600

	// DefaultTimeout is the default duration for health client calls.
	DefaultTimeout = 5 * time.Second

	defaultBaudRate      = 9600
	defaultReceiveBuffer = 512
	defaultIdleGap       = 20 * time.Millisecond
	defaultOpenAttempts  = 5

	defaultCommandTimeout     = 300 * time.Millisecond
	defaultSubmitTimeout      = 10 * time.Second
	defaultPowerPulse         = 2 * time.Second
	defaultPowerSettle        = time.Second
	defaultRegistrationSettle = 3 * time.Second

	defaultAlertMessage = "Door opened!"
	defaultAlertRetries = 3

	defaultRecheckInitial = 10 * time.Second
	defaultRecheckStep    = 10 * time.Second
	defaultRecheckMax     = 60 * time.Second

	defaultButtonPeriod = 25 * time.Millisecond
	defaultDoorPeriod   = time.Second
	defaultSamples      = 3

	defaultLogLevel = "info"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSerialPortRequired is returned when the modem port is missing.
	errSerialPortRequired = errors.New("serial port must be provided")
	// errPhoneRequired is returned when the alert recipient is missing.
	errPhoneRequired = errors.New("alert phone must be provided")
	// errNegative is returned for negative durations and counts.
	errNegative = errors.New("value must not be negative")
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.Serial.Port) == "" {
		return errSerialPortRequired
	}

	if strings.TrimSpace(cfg.Alert.Phone) == "" {
		return errPhoneRequired
	}

	if err := checkNonNegative(cfg); err != nil {
		return err
	}

	if cfg.HealthAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.HealthAddress); err != nil {
			return fmt.Errorf("invalid health address: %w", err)
		}
	}

	applyDefaults(cfg)

	if cfg.Recheck.Max < cfg.Recheck.Initial {
		return fmt.Errorf("recheck max %s is below initial %s", cfg.Recheck.Max, cfg.Recheck.Initial)
	}

	return nil
}

func checkNonNegative(cfg *Config) error {
	durations := map[string]time.Duration{
		"serial.idle_gap":           cfg.Serial.IdleGap,
		"modem.command_timeout":     cfg.Modem.CommandTimeout,
		"modem.submit_timeout":      cfg.Modem.SubmitTimeout,
		"modem.power_pulse":         cfg.Modem.PowerPulse,
		"modem.power_settle":        cfg.Modem.PowerSettle,
		"modem.registration_settle": cfg.Modem.RegistrationSettle,
		"recheck.initial":           cfg.Recheck.Initial,
		"recheck.step":              cfg.Recheck.Step,
		"recheck.max":               cfg.Recheck.Max,
		"inputs.button_period":      cfg.Inputs.ButtonPeriod,
		"inputs.door_period":        cfg.Inputs.DoorPeriod,
	}

	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s: %w", name, errNegative)
		}
	}

	if cfg.Serial.BaudRate < 0 || cfg.Serial.ReceiveBuffer < 0 || cfg.Alert.Retries < 0 {
		return fmt.Errorf("serial or alert settings: %w", errNegative)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.Serial.BaudRate, defaultBaudRate)
	setDefault(&cfg.Serial.ReceiveBuffer, defaultReceiveBuffer)
	setDefault(&cfg.Serial.IdleGap, defaultIdleGap)
	setDefault(&cfg.Serial.OpenAttempts, defaultOpenAttempts)

	setDefault(&cfg.Pins.Button, "GPIO17")
	setDefault(&cfg.Pins.Door, "GPIO27")
	setDefault(&cfg.Pins.PowerKey, "GPIO22")
	setDefault(&cfg.Pins.LEDRed, "GPIO23")
	setDefault(&cfg.Pins.LEDGreen, "GPIO24")

	setDefault(&cfg.Modem.CommandTimeout, defaultCommandTimeout)
	setDefault(&cfg.Modem.SubmitTimeout, defaultSubmitTimeout)
	setDefault(&cfg.Modem.PowerPulse, defaultPowerPulse)
	setDefault(&cfg.Modem.PowerSettle, defaultPowerSettle)
	setDefault(&cfg.Modem.RegistrationSettle, defaultRegistrationSettle)

	setDefault(&cfg.Alert.Message, defaultAlertMessage)
	setDefault(&cfg.Alert.Retries, defaultAlertRetries)

	setDefault(&cfg.Recheck.Initial, defaultRecheckInitial)
	setDefault(&cfg.Recheck.Step, defaultRecheckStep)
	setDefault(&cfg.Recheck.Max, defaultRecheckMax)

	setDefault(&cfg.Inputs.ButtonPeriod, defaultButtonPeriod)
	setDefault(&cfg.Inputs.DoorPeriod, defaultDoorPeriod)
	setDefault(&cfg.Inputs.Samples, defaultSamples)

	setDefault(&cfg.StatusFile, DefaultStatusFilename)
	setDefault(&cfg.LogLevel, defaultLogLevel)
}

// setDefault replaces a zero value with def.
func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}
