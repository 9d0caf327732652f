package modem

import "context"

// Progress is the result of one CheckOnline step.
type Progress uint8

const (
	// ProgressPending means the check needs more calls.
	ProgressPending Progress = iota
	// ProgressSucceeded means the modem powered on, configured and powered off.
	ProgressSucceeded
	// ProgressFailed means a step failed. The next call starts over.
	ProgressFailed
)

// String returns the progress name.
func (p Progress) String() string {
	switch p {
	case ProgressSucceeded:
		return "succeeded"
	case ProgressFailed:
		return "failed"
	default:
		return "pending"
	}
}

type checkPhase uint8

const (
	awaitPowerOn checkPhase = iota
	awaitConfigure
	awaitPowerOff
)

// CheckOnline advances the online check by one phase. A full check powers
// the modem on, configures it and powers it off again.
func (d *Driver) CheckOnline(ctx context.Context) Progress {
	switch d.phase {
	case awaitPowerOn:
		if err := d.PowerOn(ctx); err != nil {
			return d.failCheck()
		}

		d.phase = awaitConfigure

		return ProgressPending
	case awaitConfigure:
		if err := d.Configure(ctx); err != nil {
			return d.failCheck()
		}

		d.phase = awaitPowerOff

		return ProgressPending
	case awaitPowerOff:
		d.PowerOff(ctx)
		d.phase = awaitPowerOn

		return ProgressSucceeded
	default:
		d.phase = awaitPowerOn

		return ProgressPending
	}
}

func (d *Driver) failCheck() Progress {
	d.phase = awaitPowerOn

	return ProgressFailed
}
