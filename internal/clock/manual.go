package clock

import (
	"runtime"
	"sync/atomic"
)

// Manual is a tick source moved by hand. Idle advances it by a fixed step so
// busy-waits terminate in tests without real sleeping.
type Manual struct {
	// now is the current tick count.
	now atomic.Uint32
	// step is added on every Idle call.
	step Ticks
}

// NewManual returns a manual source starting at start with a one-tick idle step.
func NewManual(start Ticks) *Manual {
	m := &Manual{step: 1}
	m.now.Store(uint32(start))

	return m
}

// Now implements Source.
func (m *Manual) Now() Ticks {
	return Ticks(m.now.Load())
}

// Idle implements Source.
func (m *Manual) Idle() {
	m.now.Add(uint32(m.step))
	runtime.Gosched()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d Duration) {
	m.now.Add(uint32(d.Ticks()))
}

// Set moves the clock to an absolute tick count.
func (m *Manual) Set(t Ticks) {
	m.now.Store(uint32(t))
}
