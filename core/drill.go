package core

// Drill orchestrator. Runs the discharge and feed machines in lockstep,
// one evaluation of each per tick, until the axis covers the requested
// depth or the safety supervisor trips. Both machines see the same
// instant's sensor state, which is why they are advanced sequentially in
// one tick rather than concurrently.

// DrillParams bundle everything one drill invocation needs.
type DrillParams struct {
	Discharge DischargeParams
	Feed      FeedParams
	Adapt     AdaptParams

	// CurrentMA is the discharge current handed to the hardware before
	// the loop starts.
	CurrentMA uint32

	// InitialWaitUS seeds the adaptive step wait.
	InitialWaitUS uint32

	// HardAbortThreshold is the safety supervisor's short-run limit.
	HardAbortThreshold uint32

	// ReportIntervalTicks is the status-snapshot period. Zero disables
	// reporting. Snapshots are only emitted while the discharge machine
	// is cooling down, so reporting never delays an in-flight pulse.
	ReportIntervalTicks uint64
}

// AbortReason says why a drill invocation ended early.
type AbortReason uint8

const (
	AbortNone AbortReason = iota

	// AbortBoardFault: the axis board was not usable when the drill was
	// attempted.
	AbortBoardFault

	// AbortSustainedShort: the safety supervisor tripped.
	AbortSustainedShort
)

func (r AbortReason) String() string {
	switch r {
	case AbortNone:
		return "none"
	case AbortBoardFault:
		return "board_fault"
	case AbortSustainedShort:
		return "sustained_short"
	default:
		return "unknown"
	}
}

// Outcome is the result of one drill invocation.
type Outcome struct {
	Completed bool
	Abort     AbortReason
	Stats     Snapshot
}

// RunDrill erodes along one axis until Feed.TargetSteps is covered or a
// safety fault fires. report, if non-nil, receives periodic snapshots.
// The discharge gate is released unconditionally on exit.
func RunDrill(axis AxisDriver, ed Discharge, clock Clock, p DrillParams, report func(Snapshot)) Outcome {
	stats := &Stats{}

	if axis.Status() != BoardOK {
		return Outcome{Abort: AbortBoardFault, Stats: stats.Snapshot(0, 0, p.InitialWaitUS)}
	}

	ed.ToDischargeMode()
	ed.SetCurrent(p.CurrentMA)
	defer ed.SetGate(false)

	ds := DischargeState{Phase: PhaseWaitingIgnition}
	fs := NewFeedState(p.Feed, p.InitialWaitUS)
	sup := Supervisor{HardAbortThreshold: p.HardAbortThreshold}
	ticker := NewTicker(clock)

	gate := true
	ed.SetGate(true)
	lastReport := uint64(0)

	for {
		detect := ed.Detect()

		var dout DischargeOutput
		ds, dout = StepDischarge(ds, p.Discharge, detect)
		if dout.Gate != gate {
			gate = dout.Gate
			ed.SetGate(gate)
		}

		var fout FeedOutput
		fs, fout = StepFeed(fs, p.Feed, ds.SuccessiveShorts)
		if fout.Step {
			axis.Step(fout.Forward)
		}

		if dout.Ignition {
			fs.WaitTimeUS = AdjustWait(p.Adapt, fs.WaitTimeUS, dout.IgnitionDelayUS)
		}

		stats.Observe(dout, fout, ds.SuccessiveShorts)
		stats.TickMisses = ticker.Misses()

		if sup.Observe(ds.SuccessiveShorts) {
			ed.SetGate(false)
			return Outcome{
				Abort: AbortSustainedShort,
				Stats: stats.Snapshot(ticker.Tick(), fs.Position, fs.WaitTimeUS),
			}
		}

		if fs.Done(p.Feed) {
			return Outcome{
				Completed: true,
				Stats:     stats.Snapshot(ticker.Tick(), fs.Position, fs.WaitTimeUS),
			}
		}

		if report != nil && p.ReportIntervalTicks > 0 &&
			ds.Phase == PhaseCooldown &&
			ticker.Tick()-lastReport >= p.ReportIntervalTicks {
			lastReport = ticker.Tick()
			report(stats.Snapshot(ticker.Tick(), fs.Position, fs.WaitTimeUS))
		}

		ticker.Wait()
	}
}
