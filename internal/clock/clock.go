package clock

// Ticks is a wrapping millisecond counter value.
type Ticks uint32

// Source supplies the current tick count.
type Source interface {
	// Now returns the current tick count. Reads may race with the tick
	// producer; only monotonic comparison is required.
	Now() Ticks
	// Idle is executed by busy-waiting callers between two reads of Now.
	Idle()
}

// Since returns the ticks elapsed from mark to now, tolerating wraparound.
func Since(src Source, mark Ticks) Ticks {
	return src.Now() - mark
}
