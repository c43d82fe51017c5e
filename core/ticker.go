package core

// Ticker produces a monotonically increasing logical tick, one tick per
// elapsed microsecond since its origin. The control loop runs exactly one
// body evaluation per observed tick boundary; when the body overruns its
// 1 us budget the skipped boundaries are coalesced into the next
// evaluation and counted as a miss, never replayed.
type Ticker struct {
	clock  Clock
	origin uint64
	tick   uint64
	misses uint64
}

func NewTicker(clock Clock) *Ticker {
	return &Ticker{
		clock:  clock,
		origin: clock.NowMicros(),
	}
}

// Tick returns the current logical tick.
func (t *Ticker) Tick() uint64 {
	return t.tick
}

// Misses returns how many times a tick boundary was observed late.
func (t *Ticker) Misses() uint64 {
	return t.misses
}

// Wait blocks until the clock has passed the current tick, then adopts
// the observed elapsed time as the new tick. A miss is recorded when the
// observed time is strictly past tick+1, i.e. at least one boundary went
// by while the control body was still running.
func (t *Ticker) Wait() {
	next := t.tick + 1
	var elapsed uint64
	for {
		elapsed = t.clock.NowMicros() - t.origin
		if elapsed >= next {
			break
		}
	}
	if elapsed > next {
		t.misses++
	}
	t.tick = elapsed
}
