package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	// Missing port.
	settings := &Config{Alert: Alert{Phone: "+79161234567"}}
	require.ErrorIs(t, Validate(settings), errSerialPortRequired)

	// Missing phone.
	settings = &Config{Serial: Serial{Port: "/dev/ttyUSB0"}}
	require.ErrorIs(t, Validate(settings), errPhoneRequired)

	// Bad health address.
	settings = &Config{
		Serial:        Serial{Port: "/dev/ttyUSB0"},
		Alert:         Alert{Phone: "+79161234567"},
		HealthAddress: "bad:address",
	}
	require.Error(t, Validate(settings))

	// Negative duration.
	settings = &Config{
		Serial: Serial{Port: "/dev/ttyUSB0"},
		Alert:  Alert{Phone: "+79161234567"},
		Modem:  Modem{PowerPulse: -time.Second},
	}
	require.ErrorIs(t, Validate(settings), errNegative)

	// Inverted recheck schedule.
	settings = &Config{
		Serial:  Serial{Port: "/dev/ttyUSB0"},
		Alert:   Alert{Phone: "+79161234567"},
		Recheck: Recheck{Initial: time.Minute, Max: time.Second},
	}
	require.Error(t, Validate(settings))
}

// TestValidate_FillsDefaults verifies a minimal config is completed with defaults.
func TestValidate_FillsDefaults(t *testing.T) {
	t.Parallel()

	settings := &Config{
		Serial: Serial{Port: "/dev/ttyUSB0"},
		Alert:  Alert{Phone: "+79161234567"},
	}
	require.NoError(t, Validate(settings))

	require.Equal(t, 9600, settings.Serial.BaudRate)
	require.Equal(t, 512, settings.Serial.ReceiveBuffer)
	require.Equal(t, 300*time.Millisecond, settings.Modem.CommandTimeout)
	require.Equal(t, 3*time.Second, settings.Modem.RegistrationSettle)
	require.Equal(t, 3, settings.Alert.Retries)
	require.Equal(t, time.Minute, settings.Recheck.Max)
	require.Equal(t, 25*time.Millisecond, settings.Inputs.ButtonPeriod)
	require.Equal(t, uint8(3), settings.Inputs.Samples)
	require.Equal(t, DefaultStatusFilename, settings.StatusFile)
	require.Equal(t, "info", settings.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		Serial:        Serial{Port: "/dev/ttyAMA0", BaudRate: 115200, Trace: true},
		Alert:         Alert{Phone: "+79161234567", Message: "Front door opened", Retries: 5},
		Modem:         Modem{SubmitTimeout: 20 * time.Second},
		HealthAddress: "127.0.0.1:50051",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_Durations verifies human-readable durations are parsed.
func TestLoad_Durations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := `
serial:
  port: /dev/ttyUSB0
  idle_gap: 50ms
alert:
  phone: "+79161234567"
recheck:
  initial: 5s
  step: 5s
  max: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 50*time.Millisecond, loaded.Serial.IdleGap)
	require.Equal(t, 30*time.Second, loaded.Recheck.Max)
}
