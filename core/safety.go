package core

// Safety supervisor. Watches the consecutive-short counter every tick
// and trips once it reaches the hard threshold. A run of shorts this
// long means the retract machinery cannot open the gap; continuing to
// pulse into a dead short only heats the electrode. Tripping is the one
// fault that aborts an in-progress drill; everything below the threshold
// is handled locally by the state machines.

// Supervisor latches the abort decision.
type Supervisor struct {
	// HardAbortThreshold is the consecutive-short count that trips the
	// supervisor. Order of magnitude larger than the retract trigger.
	HardAbortThreshold uint32

	tripped bool
}

// Observe feeds one tick's consecutive-short count. It returns true, and
// keeps returning true, once the threshold has been reached.
func (s *Supervisor) Observe(successiveShorts uint32) bool {
	if !s.tripped && successiveShorts >= s.HardAbortThreshold {
		s.tripped = true
	}
	return s.tripped
}

// Tripped reports whether the supervisor has latched an abort.
func (s *Supervisor) Tripped() bool {
	return s.tripped
}
