package core

// Drill statistics. Counters only grow; the ignition-delay accumulator
// tracks min/avg/max over the whole invocation. The collector is updated
// every tick and read out as a value snapshot at report boundaries, so
// formatting stays out of the control loop.

// Stats accumulates per-invocation drill statistics.
type Stats struct {
	Pulses              uint64
	Shorts              uint64
	Timeouts            uint64
	Retracts            uint64
	TickMisses          uint64
	MaxSuccessiveShorts uint32

	igCount uint64
	igSum   uint64
	igMin   uint32
	igMax   uint32
}

// Observe folds one tick's discharge and feed outputs into the counters.
func (s *Stats) Observe(d DischargeOutput, f FeedOutput, successiveShorts uint32) {
	if d.Ignition {
		s.Pulses++
		s.igCount++
		s.igSum += uint64(d.IgnitionDelayUS)
		if s.igCount == 1 || d.IgnitionDelayUS < s.igMin {
			s.igMin = d.IgnitionDelayUS
		}
		if d.IgnitionDelayUS > s.igMax {
			s.igMax = d.IgnitionDelayUS
		}
	}
	if d.Short {
		s.Shorts++
	}
	if d.Timeout {
		s.Timeouts++
	}
	if f.Retract {
		s.Retracts++
	}
	if successiveShorts > s.MaxSuccessiveShorts {
		s.MaxSuccessiveShorts = successiveShorts
	}
}

// Snapshot is a value copy of the statistics plus the loop position it
// was taken at. Safe to hand to slower layers for formatting.
type Snapshot struct {
	Tick       uint64
	Position   int32
	WaitTimeUS uint32

	Pulses              uint64
	Shorts              uint64
	Timeouts            uint64
	Retracts            uint64
	TickMisses          uint64
	MaxSuccessiveShorts uint32

	IgnitionSamples uint64
	IgnitionMinUS   uint32
	IgnitionAvgUS   uint32
	IgnitionMaxUS   uint32
}

// Snapshot captures the current statistics.
func (s *Stats) Snapshot(tick uint64, position int32, waitUS uint32) Snapshot {
	snap := Snapshot{
		Tick:                tick,
		Position:            position,
		WaitTimeUS:          waitUS,
		Pulses:              s.Pulses,
		Shorts:              s.Shorts,
		Timeouts:            s.Timeouts,
		Retracts:            s.Retracts,
		TickMisses:          s.TickMisses,
		MaxSuccessiveShorts: s.MaxSuccessiveShorts,
		IgnitionSamples:     s.igCount,
	}
	if s.igCount > 0 {
		snap.IgnitionMinUS = s.igMin
		snap.IgnitionMaxUS = s.igMax
		snap.IgnitionAvgUS = uint32(s.igSum / s.igCount)
	}
	return snap
}
