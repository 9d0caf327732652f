package security

import (
	"github.com/oshokin/door-alarm/internal/clock"
)

// Default policy values.
const (
	DefaultRetryBudget    = 3
	DefaultRecheckInitial = clock.Seconds(10)
	DefaultRecheckStep    = clock.Seconds(10)
	DefaultRecheckMax     = clock.Seconds(60)
)

// Effect is a side effect requested by a transition.
type Effect uint8

const (
	// EffectNone requests nothing.
	EffectNone Effect = iota
	// EffectSendAlert runs the alert sequence before entering the next state.
	EffectSendAlert
	// EffectRestartRecheck restarts the recheck interval.
	EffectRestartRecheck
)

// Recheck is the Error backoff schedule.
type Recheck struct {
	// Initial is the first wait after entering Error.
	Initial clock.Seconds
	// Step is added to the wait after each failed recheck.
	Step clock.Seconds
	// Max caps the wait.
	Max clock.Seconds
}

// Policy parameterizes the transitions.
type Policy struct {
	// RetryBudget is the alert attempt count given to Armed.
	RetryBudget int
	// Recheck is the Error backoff schedule.
	Recheck Recheck
}

// DefaultPolicy returns the stock policy.
func DefaultPolicy() Policy {
	return Policy{
		RetryBudget: DefaultRetryBudget,
		Recheck: Recheck{
			Initial: DefaultRecheckInitial,
			Step:    DefaultRecheckStep,
			Max:     DefaultRecheckMax,
		},
	}
}

func (p Policy) armed() State {
	return State{Kind: KindArmed, RetryBudget: p.RetryBudget}
}

func (p Policy) failed(returnTo Kind) State {
	return State{Kind: KindError, ReturnTo: returnTo, Backoff: p.Recheck.Initial}
}

type transitionKey struct {
	kind  Kind
	event Event
}

type transitionFunc func(s State, p Policy) (State, Effect)

func goTo(kind Kind) transitionFunc {
	return func(State, Policy) (State, Effect) {
		return State{Kind: kind}, EffectNone
	}
}

//nolint:gochecknoglobals // The table is the state machine.
var transitions = map[transitionKey]transitionFunc{
	{KindIdle, EventButtonPressed}:            goTo(KindCheckingBeforeArm),
	{KindIdle, EventDoorClosed}:               goTo(KindIdleDoorClosed),
	{KindIdleDoorClosed, EventDoorOpened}:     goTo(KindIdle),
	{KindIdleDoorClosed, EventButtonPressed}:  goTo(KindCheckingBeforeArm),
	{KindCheckingBeforeArm, EventCheckPassed}: goTo(KindReadyToArm),
	{KindCheckingBeforeArm, EventCheckFailed}: func(_ State, p Policy) (State, Effect) {
		return p.failed(KindReadyToArm), EffectRestartRecheck
	},
	{KindReadyToArm, EventButtonPressed}: goTo(KindIdle),
	{KindReadyToArm, EventDoorClosed}: func(_ State, p Policy) (State, Effect) {
		return p.armed(), EffectNone
	},
	{KindArmed, EventButtonPressed}: goTo(KindIdle),
	{KindArmed, EventDoorOpened}: func(State, Policy) (State, Effect) {
		return State{Kind: KindIdle}, EffectSendAlert
	},
	{KindError, EventTimerDue}: func(s State, _ Policy) (State, Effect) {
		s.RecheckDue = true
		return s, EffectNone
	},
	{KindError, EventCheckPassed}: func(s State, p Policy) (State, Effect) {
		return recovered(s.ReturnTo, p), EffectNone
	},
	{KindError, EventCheckFailed}: func(s State, p Policy) (State, Effect) {
		s.Backoff = min(s.Backoff+p.Recheck.Step, p.Recheck.Max)
		s.RecheckDue = false

		return s, EffectRestartRecheck
	},
}

// recovered is where Error goes after a passing recheck.
func recovered(returnTo Kind, p Policy) State {
	switch returnTo {
	case KindCheckingBeforeArm, KindReadyToArm:
		return State{Kind: returnTo}
	case KindArmed:
		return p.armed()
	default:
		return State{Kind: KindIdle}
	}
}

// Transition looks up the reaction of s to e. It reports false when s
// ignores e.
func Transition(s State, e Event, p Policy) (State, Effect, bool) {
	fn, ok := transitions[transitionKey{s.Kind, e}]
	if !ok {
		return s, EffectNone, false
	}

	next, effect := fn(s, p)

	return next, effect, true
}
