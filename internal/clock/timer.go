package clock

// Timer measures the time since its last mark.
type Timer struct {
	// src is the tick source the timer reads.
	src Source
	// mark is the tick count captured by the last Mark.
	mark Ticks
}

// NewTimer returns a timer marked at the current time.
func NewTimer(src Source) *Timer {
	return &Timer{
		src:  src,
		mark: src.Now(),
	}
}

// Mark captures the current time.
func (t *Timer) Mark() {
	t.mark = t.src.Now()
}

// Elapsed returns the time since the last mark.
func (t *Timer) Elapsed() Milliseconds {
	return Milliseconds(Since(t.src, t.mark))
}

// Expired reports whether d has elapsed since the last mark.
func (t *Timer) Expired(d Duration) bool {
	return Since(t.src, t.mark) >= d.Ticks()
}

// Every reports whether d has elapsed since the last mark and, if so,
// re-marks the timer at the current time.
func (t *Timer) Every(d Duration) bool {
	now := t.src.Now()
	if now-t.mark < d.Ticks() {
		return false
	}

	t.mark = now

	return true
}

// Wait re-marks the timer and spins until d elapses.
// Nothing else is serviced meanwhile, so callers must keep d short.
func (t *Timer) Wait(d Duration) {
	t.Mark()

	for !t.Expired(d) {
		t.src.Idle()
	}
}

// Remaining returns how much of d is left since the last mark, or zero.
func (t *Timer) Remaining(d Duration) Milliseconds {
	elapsed := Since(t.src, t.mark)
	if elapsed >= d.Ticks() {
		return 0
	}

	return Milliseconds(d.Ticks() - elapsed)
}
