package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/domain/alarm"
	"github.com/oshokin/door-alarm/internal/input"
	"github.com/oshokin/door-alarm/internal/logger"
	"github.com/oshokin/door-alarm/internal/modem"
)

// DefaultRegistrationSettle is the pause between configuring the modem and
// submitting the alert, giving it time to register on the network.
const DefaultRegistrationSettle = clock.Seconds(3)

// Modem is the driver surface the machine uses.
type Modem interface {
	CheckOnline(ctx context.Context) modem.Progress
	PowerOn(ctx context.Context) error
	Configure(ctx context.Context) error
	SendAlert(ctx context.Context, msg modem.Message) error
	PowerOff(ctx context.Context)
}

// Button reports debounced presses.
type Button interface {
	SampleEdge() bool
}

// Door reports debounced door edges and the raw door state.
type Door interface {
	SampleEdge() input.DoorEvent
	IsClosed() bool
}

// Deps are the collaborators of a Machine.
type Deps struct {
	Modem  Modem
	Button Button
	Door   Door
	View   View
	Clock  clock.Source
	// Alert is the pre-encoded message sent when an armed door opens.
	Alert modem.Message
}

// Options tune a Machine. Zero fields take the defaults.
type Options struct {
	Policy Policy
	// RegistrationSettle is the pause before each alert submit.
	RegistrationSettle clock.Duration
}

func (o Options) withDefaults() Options {
	def := DefaultPolicy()

	if o.Policy.RetryBudget <= 0 {
		o.Policy.RetryBudget = def.RetryBudget
	}

	if o.Policy.Recheck.Initial == 0 {
		o.Policy.Recheck.Initial = def.Recheck.Initial
	}

	if o.Policy.Recheck.Step == 0 {
		o.Policy.Recheck.Step = def.Recheck.Step
	}

	if o.Policy.Recheck.Max == 0 {
		o.Policy.Recheck.Max = def.Recheck.Max
	}

	o.Policy.Recheck.Max = max(o.Policy.Recheck.Max, o.Policy.Recheck.Initial)

	if o.RegistrationSettle == nil {
		o.RegistrationSettle = DefaultRegistrationSettle
	}

	return o
}

// AlertReport describes the last alert sequence.
type AlertReport struct {
	// Attempts is the number of attempts made.
	Attempts int
	// Delivered is true when an attempt got the alert submitted.
	Delivered bool
}

// Machine runs the alarm. It is driven from a single goroutine.
type Machine struct {
	deps  Deps
	opts  Options
	state State

	// recheck times the Error backoff.
	recheck *clock.Timer
	// settle times the registration pause.
	settle *clock.Timer

	lastAlert AlertReport
}

// New returns a machine in Idle. Call Init before polling.
func New(deps Deps, opts Options) *Machine {
	return &Machine{
		deps:    deps,
		opts:    opts.withDefaults(),
		state:   State{Kind: KindIdle},
		recheck: clock.NewTimer(deps.Clock),
		settle:  clock.NewTimer(deps.Clock),
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// LastAlert returns the report of the most recent alert sequence.
func (m *Machine) LastAlert() AlertReport {
	return m.lastAlert
}

// Init runs a full modem check and picks the starting state: Armed when it
// passes with the door closed, Idle when it passes with the door open and
// Error otherwise.
func (m *Machine) Init(ctx context.Context) {
	ctx = logger.WithName(ctx, "security")

	progress := m.deps.Modem.CheckOnline(ctx)
	for progress == modem.ProgressPending {
		progress = m.deps.Modem.CheckOnline(ctx)
	}

	switch {
	case progress == modem.ProgressFailed:
		m.state = m.opts.Policy.failed(KindIdle)
		m.recheck.Mark()
	case m.deps.Door.IsClosed():
		m.state = m.opts.Policy.armed()
	default:
		m.state = State{Kind: KindIdle}
	}

	logger.InfoKV(ctx, "alarm started", "check", progress.String(), "state", m.state.String())

	m.deps.View.SetState(ctx, m.state.Display())
}

// Poll runs one tick: it animates the view, samples the inputs and applies
// at most one transition.
func (m *Machine) Poll(ctx context.Context) {
	ctx = logger.WithName(ctx, "security")

	m.deps.View.Poll(ctx)

	pressed := m.deps.Button.SampleEdge()
	door := m.deps.Door.SampleEdge()

	if pressed && m.offer(ctx, EventButtonPressed) {
		return
	}

	if event, ok := doorEvent(door); ok && m.offer(ctx, event) {
		return
	}

	if event, ok := m.stateEvent(ctx); ok {
		m.offer(ctx, event)
	}
}

func doorEvent(e input.DoorEvent) (Event, bool) {
	switch e {
	case input.DoorOpened:
		return EventDoorOpened, true
	case input.DoorClosed:
		return EventDoorClosed, true
	default:
		return 0, false
	}
}

// stateEvent produces the event the current state generates by itself.
func (m *Machine) stateEvent(ctx context.Context) (Event, bool) {
	switch m.state.Kind {
	case KindCheckingBeforeArm:
		return m.check(ctx)
	case KindError:
		if m.state.RecheckDue {
			return m.check(ctx)
		}

		if m.recheck.Expired(m.state.Backoff) {
			return EventTimerDue, true
		}
	}

	return 0, false
}

func (m *Machine) check(ctx context.Context) (Event, bool) {
	switch m.deps.Modem.CheckOnline(ctx) {
	case modem.ProgressSucceeded:
		return EventCheckPassed, true
	case modem.ProgressFailed:
		return EventCheckFailed, true
	default:
		return 0, false
	}
}

// offer applies e if the current state reacts to it.
func (m *Machine) offer(ctx context.Context, e Event) bool {
	next, effect, ok := Transition(m.state, e, m.opts.Policy)
	if !ok {
		return false
	}

	switch effect {
	case EffectSendAlert:
		m.lastAlert = m.sendAlert(ctx, m.state.RetryBudget)
	case EffectRestartRecheck:
		m.recheck.Mark()
	case EffectNone:
	}

	logger.InfoKV(ctx, "state changed",
		"event", e.String(),
		"from", m.state.String(),
		"to", next.String())

	m.state = next
	m.deps.View.SetState(ctx, next.Display())

	return true
}

// errModemStep marks an attempt abandoned at a failing step.
var errModemStep = errors.New("alert attempt failed")

// sendAlert tries up to budget times to deliver the alert, power-cycling the
// modem between attempts and leaving it off. Once started it runs to the end
// of its budget even if ctx is cancelled.
func (m *Machine) sendAlert(ctx context.Context, budget int) AlertReport {
	ctx = context.WithoutCancel(ctx)

	m.deps.View.SetState(ctx, alarm.Alerting)

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if budget > 1 {
		policy = backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(budget-1))
	}

	var report AlertReport

	err := backoff.Retry(func() error {
		if report.Attempts > 0 {
			m.deps.Modem.PowerOff(ctx)
		}

		report.Attempts++

		err := m.attemptAlert(ctx)
		if err != nil {
			logger.WarnKV(ctx, "alert attempt failed", "attempt", report.Attempts, "error", err)
		}

		return err
	}, policy)

	m.deps.Modem.PowerOff(ctx)

	report.Delivered = err == nil

	if report.Delivered {
		logger.InfoKV(ctx, "alert delivered", "attempts", report.Attempts)
	} else {
		logger.ErrorKV(ctx, "alert not delivered", "attempts", report.Attempts, "error", err)
	}

	return report
}

func (m *Machine) attemptAlert(ctx context.Context) error {
	if err := m.deps.Modem.PowerOn(ctx); err != nil {
		return fmt.Errorf("%w: power on: %w", errModemStep, err)
	}

	if err := m.deps.Modem.Configure(ctx); err != nil {
		return fmt.Errorf("%w: configure: %w", errModemStep, err)
	}

	m.settle.Wait(m.opts.RegistrationSettle)

	if err := m.deps.Modem.SendAlert(ctx, m.deps.Alert); err != nil {
		return fmt.Errorf("%w: send: %w", errModemStep, err)
	}

	return nil
}
