package core

// Axis feed state machine. In the steady state it advances the electrode
// one microstep every WaitTimeUS ticks. Two conditions interrupt the
// feed with a retract-then-advance (pull-push) cycle:
//
//   - a run of consecutive shorts (the electrode is crowding the
//     workpiece) triggers a pull with no push back, and
//   - a periodic purge ("pump") pulls and pushes a symmetric, larger
//     distance to flush eroded debris out of the gap.
//
// Pull and push both run at the fastest allowed cadence (MinWaitUS).

// FeedMode identifies the motion mode of the axis.
type FeedMode uint8

const (
	FeedOK FeedMode = iota
	FeedPulling
	FeedPushing
)

func (m FeedMode) String() string {
	switch m {
	case FeedOK:
		return "ok"
	case FeedPulling:
		return "pulling"
	case FeedPushing:
		return "pushing"
	default:
		return "unknown"
	}
}

// FeedParams are the fixed feed-cycle settings for one drill invocation.
type FeedParams struct {
	// TargetSteps is the drill depth in microsteps.
	TargetSteps uint32

	// Forward is the commanded feed direction.
	Forward bool

	// MinWaitUS and MaxWaitUS bound the adaptive step wait.
	MinWaitUS uint32
	MaxWaitUS uint32

	// RetractTrigger is the consecutive-short count that starts a
	// retract. Soft threshold; far below the hard-abort one.
	RetractTrigger uint32

	// RetractSteps is the pull distance of a short-triggered retract.
	RetractSteps uint32

	// PumpSteps is the symmetric pull/push distance of a purge cycle.
	PumpSteps uint32

	// PumpIntervalTicks is the purge period, in ticks spent in FeedOK.
	// Zero disables purging.
	PumpIntervalTicks uint64
}

// FeedState is the mutable state of the axis feed.
type FeedState struct {
	Mode FeedMode

	// Position is the signed microstep count from the invocation start.
	Position int32

	// WaitTimeUS is the current adaptive step wait, always within
	// [MinWaitUS, MaxWaitUS].
	WaitTimeUS uint32

	// PhaseTimer counts ticks toward the next step in the current mode.
	PhaseTimer uint32

	// PullTarget and PushTarget are the step distances of the current
	// pull-push cycle; PhaseSteps is the progress within the phase.
	PullTarget uint32
	PushTarget uint32
	PhaseSteps uint32

	// TicksSincePump counts FeedOK ticks since the last purge.
	TicksSincePump uint64
}

// NewFeedState returns the initial feed state with the wait clamped into
// the configured band.
func NewFeedState(p FeedParams, initialWaitUS uint32) FeedState {
	if initialWaitUS < p.MinWaitUS {
		initialWaitUS = p.MinWaitUS
	}
	if initialWaitUS > p.MaxWaitUS {
		initialWaitUS = p.MaxWaitUS
	}
	return FeedState{Mode: FeedOK, WaitTimeUS: initialWaitUS}
}

// FeedOutput is what one tick of the feed machine asks of the hardware.
type FeedOutput struct {
	// Step requests one step pulse; Forward is its direction.
	Step    bool
	Forward bool

	// Retract is set on the tick a pull cycle begins (either trigger).
	Retract bool
}

// Done reports whether the drill target depth has been reached. Only
// meaningful in FeedOK: a pending pull-push cycle always completes first.
func (s FeedState) Done(p FeedParams) bool {
	if s.Mode != FeedOK {
		return false
	}
	pos := s.Position
	if pos < 0 {
		pos = -pos
	}
	return uint32(pos) >= p.TargetSteps
}

// StepFeed advances the axis feed by one tick. successiveShorts is the
// discharge machine's current short run length.
func StepFeed(s FeedState, p FeedParams, successiveShorts uint32) (FeedState, FeedOutput) {
	var out FeedOutput

	switch s.Mode {
	case FeedOK:
		if successiveShorts >= p.RetractTrigger {
			s.Mode = FeedPulling
			s.PullTarget = p.RetractSteps
			s.PushTarget = 0
			s.PhaseSteps = 0
			s.PhaseTimer = 0
			out.Retract = true
			break
		}
		if p.PumpIntervalTicks > 0 && s.TicksSincePump >= p.PumpIntervalTicks {
			s.Mode = FeedPulling
			s.PullTarget = p.PumpSteps
			s.PushTarget = p.PumpSteps
			s.PhaseSteps = 0
			s.PhaseTimer = 0
			s.TicksSincePump = 0
			out.Retract = true
			break
		}
		s.TicksSincePump++
		s.PhaseTimer++
		if s.PhaseTimer >= s.WaitTimeUS {
			s.PhaseTimer = 0
			s.Position += feedDelta(p.Forward)
			out.Step = true
			out.Forward = p.Forward
		}

	case FeedPulling:
		s.PhaseTimer++
		if s.PhaseTimer >= p.MinWaitUS {
			s.PhaseTimer = 0
			s.Position -= feedDelta(p.Forward)
			s.PhaseSteps++
			out.Step = true
			out.Forward = !p.Forward
			if s.PhaseSteps >= s.PullTarget {
				s.PhaseSteps = 0
				if s.PushTarget > 0 {
					s.Mode = FeedPushing
				} else {
					s.Mode = FeedOK
				}
			}
		}

	case FeedPushing:
		s.PhaseTimer++
		if s.PhaseTimer >= p.MinWaitUS {
			s.PhaseTimer = 0
			s.Position += feedDelta(p.Forward)
			s.PhaseSteps++
			out.Step = true
			out.Forward = p.Forward
			if s.PhaseSteps >= s.PushTarget {
				s.PhaseSteps = 0
				s.Mode = FeedOK
			}
		}
	}

	return s, out
}

func feedDelta(forward bool) int32 {
	if forward {
		return 1
	}
	return -1
}
