package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/domain/alarm"
	"github.com/oshokin/door-alarm/internal/input"
	"github.com/oshokin/door-alarm/internal/modem"
)

var errNetwork = errors.New("network unavailable")

// fakeModem replays scripted check results and send errors.
type fakeModem struct {
	checks   []modem.Progress
	sendErrs []error
	calls    []string
}

func (f *fakeModem) CheckOnline(context.Context) modem.Progress {
	f.calls = append(f.calls, "check")

	if len(f.checks) == 0 {
		return modem.ProgressSucceeded
	}

	p := f.checks[0]
	f.checks = f.checks[1:]

	return p
}

func (f *fakeModem) PowerOn(context.Context) error {
	f.calls = append(f.calls, "power_on")
	return nil
}

func (f *fakeModem) Configure(context.Context) error {
	f.calls = append(f.calls, "configure")
	return nil
}

func (f *fakeModem) SendAlert(context.Context, modem.Message) error {
	f.calls = append(f.calls, "send")

	if len(f.sendErrs) == 0 {
		return nil
	}

	err := f.sendErrs[0]
	f.sendErrs = f.sendErrs[1:]

	return err
}

func (f *fakeModem) PowerOff(context.Context) {
	f.calls = append(f.calls, "power_off")
}

func (f *fakeModem) count(call string) int {
	n := 0

	for _, c := range f.calls {
		if c == call {
			n++
		}
	}

	return n
}

type fakeButton struct {
	pressed bool
}

func (b *fakeButton) SampleEdge() bool {
	pressed := b.pressed
	b.pressed = false

	return pressed
}

type fakeDoor struct {
	next   input.DoorEvent
	closed bool
}

func (d *fakeDoor) SampleEdge() input.DoorEvent {
	e := d.next
	d.next = input.DoorUnchanged

	return e
}

func (d *fakeDoor) IsClosed() bool {
	return d.closed
}

type recordingView struct {
	states []alarm.Display
	polls  int
}

func (v *recordingView) SetState(_ context.Context, state alarm.Display) {
	v.states = append(v.states, state)
}

func (v *recordingView) Poll(context.Context) {
	v.polls++
}

func (v *recordingView) last() alarm.Display {
	if len(v.states) == 0 {
		return alarm.Nothing
	}

	return v.states[len(v.states)-1]
}

type harness struct {
	machine *Machine
	modem   *fakeModem
	button  *fakeButton
	door    *fakeDoor
	view    *recordingView
	clock   *clock.Manual
}

func newHarness(m *fakeModem, doorClosed bool) *harness {
	h := &harness{
		modem:  m,
		button: &fakeButton{},
		door:   &fakeDoor{closed: doorClosed},
		view:   &recordingView{},
		clock:  clock.NewManual(0),
	}

	h.machine = New(Deps{
		Modem:  h.modem,
		Button: h.button,
		Door:   h.door,
		View:   h.view,
		Clock:  h.clock,
	}, Options{RegistrationSettle: clock.Milliseconds(100)})

	return h
}

func (h *harness) press(ctx context.Context) {
	h.button.pressed = true
	h.machine.Poll(ctx)
}

func (h *harness) doorEdge(ctx context.Context, e input.DoorEvent) {
	h.door.next = e
	h.door.closed = e == input.DoorClosed
	h.machine.Poll(ctx)
}

// TestMachine_InitArmsWithClosedDoor verifies a good start with the door shut goes straight to Armed.
func TestMachine_InitArmsWithClosedDoor(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeModem{checks: []modem.Progress{modem.ProgressPending, modem.ProgressPending}}, true)
	h.machine.Init(context.Background())

	require.Equal(t, State{Kind: KindArmed, RetryBudget: DefaultRetryBudget}, h.machine.State())
	require.Equal(t, 3, h.modem.count("check"))
	require.Equal(t, []alarm.Display{alarm.Armed}, h.view.states)
}

// TestMachine_StartupFailureRecovers walks Error through a timed recheck back to Idle.
func TestMachine_StartupFailureRecovers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(&fakeModem{checks: []modem.Progress{
		modem.ProgressFailed,
		modem.ProgressPending,
		modem.ProgressPending,
		modem.ProgressSucceeded,
	}}, false)

	h.machine.Init(ctx)
	require.Equal(t, KindError, h.machine.State().Kind)
	require.Equal(t, KindIdle, h.machine.State().ReturnTo)
	require.Equal(t, alarm.Error, h.view.last())

	h.machine.Poll(ctx)
	require.False(t, h.machine.State().RecheckDue)
	require.Equal(t, 1, h.modem.count("check"))

	h.clock.Advance(DefaultRecheckInitial)
	h.machine.Poll(ctx)
	require.True(t, h.machine.State().RecheckDue)

	h.machine.Poll(ctx)
	h.machine.Poll(ctx)
	require.Equal(t, KindError, h.machine.State().Kind)

	h.machine.Poll(ctx)
	require.Equal(t, State{Kind: KindIdle}, h.machine.State())
	require.Equal(t, alarm.Idle, h.view.last())

	h.doorEdge(ctx, input.DoorClosed)
	require.Equal(t, KindIdleDoorClosed, h.machine.State().Kind)
	require.Equal(t, 6, h.view.polls)
}

// TestMachine_ArmAndAlertRetry arms the alarm, opens the door and delivers the alert on the second attempt.
func TestMachine_ArmAndAlertRetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := &fakeModem{sendErrs: []error{errNetwork, nil}}
	h := newHarness(m, false)

	h.machine.Init(ctx)
	require.Equal(t, KindIdle, h.machine.State().Kind)

	h.press(ctx)
	require.Equal(t, KindCheckingBeforeArm, h.machine.State().Kind)

	h.machine.Poll(ctx)
	require.Equal(t, KindReadyToArm, h.machine.State().Kind)

	h.doorEdge(ctx, input.DoorClosed)
	require.Equal(t, KindArmed, h.machine.State().Kind)

	m.calls = nil

	h.doorEdge(ctx, input.DoorOpened)
	require.Equal(t, State{Kind: KindIdle}, h.machine.State())
	require.Equal(t, AlertReport{Attempts: 2, Delivered: true}, h.machine.LastAlert())
	require.Equal(t, []string{
		"power_on", "configure", "send",
		"power_off",
		"power_on", "configure", "send",
		"power_off",
	}, m.calls)

	n := len(h.view.states)
	require.Equal(t, []alarm.Display{alarm.Alerting, alarm.Idle}, h.view.states[n-2:])
}

// TestMachine_AlertBudgetExhausted verifies the sequence gives up after the budget and still ends in Idle.
func TestMachine_AlertBudgetExhausted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := &fakeModem{sendErrs: []error{errNetwork, errNetwork, errNetwork, errNetwork}}
	h := newHarness(m, true)

	h.machine.Init(ctx)
	require.Equal(t, KindArmed, h.machine.State().Kind)

	h.doorEdge(ctx, input.DoorOpened)
	require.Equal(t, KindIdle, h.machine.State().Kind)
	require.Equal(t, AlertReport{Attempts: DefaultRetryBudget, Delivered: false}, h.machine.LastAlert())
	require.Equal(t, DefaultRetryBudget, m.count("send"))
	require.Equal(t, DefaultRetryBudget, m.count("power_off"))
}

// TestMachine_SingleAttemptBudget checks a budget of one never retries.
func TestMachine_SingleAttemptBudget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := &fakeModem{sendErrs: []error{errNetwork, errNetwork}}
	h := newHarness(m, true)
	h.machine.opts.Policy.RetryBudget = 1

	h.machine.Init(ctx)
	h.doorEdge(ctx, input.DoorOpened)

	require.Equal(t, AlertReport{Attempts: 1}, h.machine.LastAlert())
}

// TestMachine_ButtonTakesPriority ensures a press wins over a door edge in the same tick.
func TestMachine_ButtonTakesPriority(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(&fakeModem{}, false)

	h.machine.Init(ctx)
	h.press(ctx)
	h.machine.Poll(ctx)
	require.Equal(t, KindReadyToArm, h.machine.State().Kind)

	h.button.pressed = true
	h.door.next = input.DoorClosed
	h.machine.Poll(ctx)

	require.Equal(t, KindIdle, h.machine.State().Kind)
}

// TestMachine_RecheckBackoffGrows verifies repeated recheck failures widen the interval to its cap.
func TestMachine_RecheckBackoffGrows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := &fakeModem{checks: []modem.Progress{modem.ProgressFailed}}
	h := newHarness(m, false)

	h.machine.Init(ctx)

	want := []clock.Seconds{20, 30, 40, 50, 60}

	for _, next := range want {
		backoff := h.machine.State().Backoff

		h.clock.Advance(backoff - 1)
		h.machine.Poll(ctx)
		require.False(t, h.machine.State().RecheckDue)

		h.clock.Advance(clock.Seconds(1))
		h.machine.Poll(ctx)
		require.True(t, h.machine.State().RecheckDue)

		m.checks = []modem.Progress{modem.ProgressFailed}
		h.machine.Poll(ctx)
		require.Equal(t, next, h.machine.State().Backoff)
		require.False(t, h.machine.State().RecheckDue)
	}
}

// TestMachine_CheckFailureBeforeArm returns to ReadyToArm once the modem recovers.
func TestMachine_CheckFailureBeforeArm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := &fakeModem{}
	h := newHarness(m, false)

	h.machine.Init(ctx)
	h.press(ctx)

	m.checks = []modem.Progress{modem.ProgressFailed}
	h.machine.Poll(ctx)
	require.Equal(t, KindError, h.machine.State().Kind)
	require.Equal(t, KindReadyToArm, h.machine.State().ReturnTo)

	// Presses are ignored while in Error.
	h.press(ctx)
	require.Equal(t, KindError, h.machine.State().Kind)

	h.clock.Advance(DefaultRecheckInitial)
	h.machine.Poll(ctx)
	h.machine.Poll(ctx)
	require.Equal(t, KindReadyToArm, h.machine.State().Kind)
}

// TestMachine_AlertSurvivesCancellation keeps retrying after the context is cancelled mid-alarm.
func TestMachine_AlertSurvivesCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	m := &fakeModem{sendErrs: []error{errNetwork, errNetwork, nil}}
	h := newHarness(m, true)

	h.machine.Init(ctx)
	require.Equal(t, KindArmed, h.machine.State().Kind)

	cancel()
	h.doorEdge(ctx, input.DoorOpened)

	require.Equal(t, AlertReport{Attempts: DefaultRetryBudget, Delivered: true}, h.machine.LastAlert())
	require.Equal(t, DefaultRetryBudget, m.count("send"))
	require.Equal(t, KindIdle, h.machine.State().Kind)
}
