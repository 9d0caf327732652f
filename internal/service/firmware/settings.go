package firmware

import (
	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/input"
	"github.com/oshokin/door-alarm/internal/modem"
	"github.com/oshokin/door-alarm/internal/security"
)

// ModemOptions converts the modem section into driver timings.
func ModemOptions(cfg *config.Config) modem.Options {
	return modem.Options{
		CommandTimeout: clock.FromDuration(cfg.Modem.CommandTimeout),
		SubmitTimeout:  clock.FromDuration(cfg.Modem.SubmitTimeout),
		PowerPulse:     clock.FromDuration(cfg.Modem.PowerPulse),
		PowerSettle:    clock.FromDuration(cfg.Modem.PowerSettle),
	}
}

// MachineOptions converts the alert and recheck sections into a machine policy.
func MachineOptions(cfg *config.Config) security.Options {
	return security.Options{
		Policy: security.Policy{
			RetryBudget: cfg.Alert.Retries,
			Recheck: security.Recheck{
				Initial: clock.FromDuration(cfg.Recheck.Initial).Seconds(),
				Step:    clock.FromDuration(cfg.Recheck.Step).Seconds(),
				Max:     clock.FromDuration(cfg.Recheck.Max).Seconds(),
			},
		},
		RegistrationSettle: clock.FromDuration(cfg.Modem.RegistrationSettle),
	}
}

// ButtonOptions returns the debouncing options of the arm button.
func ButtonOptions(cfg *config.Config) []input.Option {
	return []input.Option{
		input.WithPeriod(clock.FromDuration(cfg.Inputs.ButtonPeriod)),
		input.WithSamples(cfg.Inputs.Samples),
	}
}

// DoorOptions returns the debouncing options of the door sensor.
func DoorOptions(cfg *config.Config) []input.Option {
	return []input.Option{
		input.WithPeriod(clock.FromDuration(cfg.Inputs.DoorPeriod)),
		input.WithSamples(cfg.Inputs.Samples),
	}
}
