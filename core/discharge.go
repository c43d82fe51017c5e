package core

// Discharge pulse state machine. One instance controls one pulse cycle:
// hold the gate, wait for ignition, keep the arc up for the pulse
// duration, then cool down. Shorts get their own, shorter cooldown
// branch: a short dissipates almost no energy, so the gap needs far less
// recovery time than after a real pulse.
//
// The machine is a pure transition function so it can be driven
// tick-by-tick in tests without hardware.

// DischargePhase identifies the phase of the pulse cycle.
type DischargePhase uint8

const (
	PhaseWaitingIgnition DischargePhase = iota
	PhaseDischarging
	PhaseCooldown
	PhaseShortCooldown
)

func (p DischargePhase) String() string {
	switch p {
	case PhaseWaitingIgnition:
		return "waiting_ignition"
	case PhaseDischarging:
		return "discharging"
	case PhaseCooldown:
		return "cooldown"
	case PhaseShortCooldown:
		return "short_cooldown"
	default:
		return "unknown"
	}
}

// DischargeParams are the fixed pulse-cycle timings.
type DischargeParams struct {
	// PulseDurationUS is the arc on-time after ignition.
	PulseDurationUS uint32

	// DutyPct bounds on-time as a percentage of the full cycle; it
	// determines the normal cooldown length.
	DutyPct uint32

	// ShortThresholdUS: an ignition delay at or below this is a short
	// circuit (electrode touching the workpiece).
	ShortThresholdUS uint32

	// IgnitionMaxWaitUS: waiting longer than this for ignition is a
	// timeout (open gap), and the wait restarts.
	IgnitionMaxWaitUS uint32

	// ShortCooldownUS is the cooldown after a short.
	ShortCooldownUS uint32
}

// CooldownUS derives the normal post-pulse cooldown from the duty cycle.
func (p DischargeParams) CooldownUS() uint32 {
	return p.PulseDurationUS*100/p.DutyPct - p.PulseDurationUS
}

// DischargeState is the mutable state of the pulse cycle.
type DischargeState struct {
	Phase      DischargePhase
	PhaseTimer uint32

	// SuccessiveShorts counts shorts since the last non-short exit from
	// PhaseWaitingIgnition. It feeds both the retract trigger and the
	// hard-abort supervisor.
	SuccessiveShorts uint32
}

// DischargeOutput is what one tick of the machine asks of the hardware
// and reports to the rest of the loop.
type DischargeOutput struct {
	// Gate is the level the discharge gate must hold after this tick.
	Gate bool

	// Ignition is set on the tick a normal ignition is detected;
	// IgnitionDelayUS then carries the measured delay. This is the
	// sample the adaptive feed controller consumes.
	Ignition        bool
	IgnitionDelayUS uint32

	// Short is set on the tick a short circuit is detected.
	Short bool

	// Timeout is set on the tick the ignition wait gives up and
	// restarts.
	Timeout bool
}

// StepDischarge advances the pulse cycle by one tick. detect is the
// ignition/contact detector sampled this tick.
//
// Note the timeout branch resets SuccessiveShorts exactly like a good
// ignition does. The abort margin was tuned around this; see DESIGN.md
// before changing it.
func StepDischarge(s DischargeState, p DischargeParams, detect bool) (DischargeState, DischargeOutput) {
	var out DischargeOutput

	switch s.Phase {
	case PhaseWaitingIgnition:
		s.PhaseTimer++
		if s.PhaseTimer >= p.IgnitionMaxWaitUS {
			// Open gap. Keep the gate up and start the wait over.
			s.PhaseTimer = 0
			s.SuccessiveShorts = 0
			out.Timeout = true
			out.Gate = true
			break
		}
		if !detect {
			out.Gate = true
			break
		}
		ig := s.PhaseTimer
		if ig <= p.ShortThresholdUS {
			s.Phase = PhaseShortCooldown
			s.PhaseTimer = 0
			s.SuccessiveShorts++
			out.Short = true
			out.Gate = false
			break
		}
		s.Phase = PhaseDischarging
		s.PhaseTimer = 0
		s.SuccessiveShorts = 0
		out.Ignition = true
		out.IgnitionDelayUS = ig
		out.Gate = true

	case PhaseDischarging:
		s.PhaseTimer++
		if s.PhaseTimer >= p.PulseDurationUS {
			s.Phase = PhaseCooldown
			s.PhaseTimer = 0
			out.Gate = false
			break
		}
		out.Gate = true

	case PhaseCooldown:
		s.PhaseTimer++
		if s.PhaseTimer >= p.CooldownUS() {
			s.Phase = PhaseWaitingIgnition
			s.PhaseTimer = 0
			out.Gate = true
			break
		}
		out.Gate = false

	case PhaseShortCooldown:
		s.PhaseTimer++
		if s.PhaseTimer >= p.ShortCooldownUS {
			s.Phase = PhaseWaitingIgnition
			s.PhaseTimer = 0
			out.Gate = true
			break
		}
		out.Gate = false
	}

	return s, out
}
