package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// tickPeriod is the resolution of the system tick.
	tickPeriod = time.Millisecond
	// idlePause is how long Idle yields the CPU to other goroutines.
	idlePause = tickPeriod / 4
)

// SysTick is the production tick source: a ticker goroutine increments a
// shared counter the same way a periodic timer interrupt would.
type SysTick struct {
	// counter is written only by the tick goroutine.
	counter atomic.Uint32
	// stop terminates the tick goroutine.
	stop chan struct{}
	// stopOnce guards stop against double close.
	stopOnce sync.Once
}

// StartSysTick starts the tick goroutine.
// Call Stop to release it.
func StartSysTick() *SysTick {
	t := &SysTick{
		stop: make(chan struct{}),
	}

	go t.run(time.Now())

	return t
}

// Now implements Source.
func (t *SysTick) Now() Ticks {
	return Ticks(t.counter.Load())
}

// Idle implements Source by briefly yielding the CPU.
func (t *SysTick) Idle() {
	time.Sleep(idlePause)
}

// Stop terminates the tick goroutine. The counter keeps its last value.
func (t *SysTick) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

func (t *SysTick) run(start time.Time) {
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	// Ticks are derived from wall-clock progress so a late goroutine
	// catches up instead of drifting.
	var counted uint64

	for {
		select {
		case <-t.stop:
			return
		case now := <-ticker.C:
			total := uint64(now.Sub(start) / tickPeriod)
			if total > counted {
				t.counter.Add(uint32(total - counted)) //nolint:gosec // Wraparound is expected.
				counted = total
			}
		}
	}
}
