package config

import "fmt"

// Validate checks profile correctness. Declarative checks only; it never
// mutates the profile.
func Validate(p *Profile) error {
	if p.Pulse.DurationUS < 50 || p.Pulse.DurationUS > 10000 {
		return fmt.Errorf("pulse: duration_us %d outside [50, 10000]", p.Pulse.DurationUS)
	}
	if p.Pulse.DutyPct < 1 || p.Pulse.DutyPct > 80 {
		return fmt.Errorf("pulse: duty_pct %d outside [1, 80]", p.Pulse.DutyPct)
	}
	if p.Pulse.CurrentMA < 100 || p.Pulse.CurrentMA > 8000 {
		return fmt.Errorf("pulse: current_ma %d outside [100, 8000]", p.Pulse.CurrentMA)
	}
	if p.Pulse.ShortThresholdUS == 0 {
		return fmt.Errorf("pulse: short_threshold_us must be positive")
	}
	if p.Pulse.IgnitionMaxWaitUS <= p.Pulse.ShortThresholdUS {
		return fmt.Errorf(
			"pulse: ignition_max_wait_us %d must exceed short_threshold_us %d",
			p.Pulse.IgnitionMaxWaitUS, p.Pulse.ShortThresholdUS,
		)
	}
	if p.Pulse.ShortCooldownUS == 0 {
		return fmt.Errorf("pulse: short_cooldown_us must be positive")
	}
	if p.Pulse.IgnitionTargetUS <= p.Pulse.ShortThresholdUS ||
		p.Pulse.IgnitionTargetUS >= p.Pulse.IgnitionMaxWaitUS {
		return fmt.Errorf(
			"pulse: ignition_target_us %d must lie between short_threshold_us and ignition_max_wait_us",
			p.Pulse.IgnitionTargetUS,
		)
	}

	if p.Feed.MinWaitUS == 0 {
		return fmt.Errorf("feed: min_wait_us must be positive")
	}
	if p.Feed.MaxWaitUS < p.Feed.MinWaitUS {
		return fmt.Errorf(
			"feed: max_wait_us %d below min_wait_us %d",
			p.Feed.MaxWaitUS, p.Feed.MinWaitUS,
		)
	}
	if p.Feed.InitialWaitUS < p.Feed.MinWaitUS || p.Feed.InitialWaitUS > p.Feed.MaxWaitUS {
		return fmt.Errorf(
			"feed: initial_wait_us %d outside [%d, %d]",
			p.Feed.InitialWaitUS, p.Feed.MinWaitUS, p.Feed.MaxWaitUS,
		)
	}
	if p.Feed.RetractTrigger == 0 {
		return fmt.Errorf("feed: retract_trigger must be positive")
	}
	if p.Feed.RetractSteps == 0 {
		return fmt.Errorf("feed: retract_steps must be positive")
	}
	if p.Feed.PumpIntervalMS > 0 && p.Feed.PumpSteps == 0 {
		return fmt.Errorf("feed: pump_interval_ms is set but pump_steps is zero")
	}

	if p.Safety.HardAbortShorts <= p.Feed.RetractTrigger {
		return fmt.Errorf(
			"safety: hard_abort_shorts %d must exceed feed retract_trigger %d",
			p.Safety.HardAbortShorts, p.Feed.RetractTrigger,
		)
	}

	return nil
}
