package core

// Clock provides monotonic time in microseconds. Hardware targets back it
// with the MCU timer peripheral; tests drive it synthetically.
type Clock interface {
	NowMicros() uint64
}

// SimClock is a manually-advanced Clock for tests.
type SimClock struct {
	Micros uint64

	// OnRead, if set, is called before every NowMicros. It lets tests
	// auto-advance time so busy-wait loops terminate.
	OnRead func(c *SimClock)
}

func (c *SimClock) NowMicros() uint64 {
	if c.OnRead != nil {
		c.OnRead(c)
	}
	return c.Micros
}

// Advance moves the simulated clock forward.
func (c *SimClock) Advance(us uint64) {
	c.Micros += us
}
