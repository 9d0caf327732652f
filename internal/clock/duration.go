package clock

import "time"

// Duration is either Milliseconds or Seconds.
type Duration interface {
	// Ticks returns the duration expressed in counter ticks (milliseconds).
	Ticks() Ticks

	sealed()
}

// Milliseconds is a duration in milliseconds.
type Milliseconds uint32

// Seconds is a duration in whole seconds.
type Seconds uint32

// millisecondsPerSecond is the exact conversion factor between the two units.
const millisecondsPerSecond = 1_000

// Ticks implements Duration.
func (ms Milliseconds) Ticks() Ticks { return Ticks(ms) }

// Add returns ms+other.
func (ms Milliseconds) Add(other Milliseconds) Milliseconds { return ms + other }

// Seconds truncates ms to whole seconds.
func (ms Milliseconds) Seconds() Seconds { return Seconds(ms / millisecondsPerSecond) }

// Duration converts ms to a time.Duration.
func (ms Milliseconds) Duration() time.Duration { return time.Duration(ms) * time.Millisecond }

func (Milliseconds) sealed() {}

// Ticks implements Duration.
func (s Seconds) Ticks() Ticks { return Ticks(s.Milliseconds()) }

// Add returns s+other.
func (s Seconds) Add(other Seconds) Seconds { return s + other }

// Milliseconds converts s to milliseconds.
func (s Seconds) Milliseconds() Milliseconds { return Milliseconds(s) * millisecondsPerSecond }

// Duration converts s to a time.Duration.
func (s Seconds) Duration() time.Duration { return time.Duration(s) * time.Second }

func (Seconds) sealed() {}

// FromDuration converts a configuration value into Milliseconds.
// Negative values clamp to zero and sub-millisecond remainders are dropped.
func FromDuration(d time.Duration) Milliseconds {
	if d <= 0 {
		return 0
	}

	return Milliseconds(d / time.Millisecond)
}
