// Package config loads drill profiles: the pulse, feed, and safety
// settings for one kind of hole in one kind of material. Profiles are
// YAML; missing fields fall back to the firmware reset values.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"edrill/core"
)

type Profile struct {
	Pulse  PulseConfig  `yaml:"pulse"`
	Feed   FeedConfig   `yaml:"feed"`
	Safety SafetyConfig `yaml:"safety"`
	Report ReportConfig `yaml:"report"`
}

type PulseConfig struct {
	DurationUS        uint32 `yaml:"duration_us"`
	DutyPct           uint32 `yaml:"duty_pct"`
	CurrentMA         uint32 `yaml:"current_ma"`
	ShortThresholdUS  uint32 `yaml:"short_threshold_us"`
	IgnitionMaxWaitUS uint32 `yaml:"ignition_max_wait_us"`
	ShortCooldownUS   uint32 `yaml:"short_cooldown_us"`
	IgnitionTargetUS  uint32 `yaml:"ignition_target_us"`
}

type FeedConfig struct {
	MinWaitUS      uint32 `yaml:"min_wait_us"`
	MaxWaitUS      uint32 `yaml:"max_wait_us"`
	InitialWaitUS  uint32 `yaml:"initial_wait_us"`
	RetractTrigger uint32 `yaml:"retract_trigger"`
	RetractSteps   uint32 `yaml:"retract_steps"`
	PumpIntervalMS uint32 `yaml:"pump_interval_ms"`
	PumpSteps      uint32 `yaml:"pump_steps"`
}

type SafetyConfig struct {
	HardAbortShorts uint32 `yaml:"hard_abort_shorts"`
}

type ReportConfig struct {
	IntervalMS uint32 `yaml:"interval_ms"`
}

// Default returns the firmware reset profile.
func Default() Profile {
	return Profile{
		Pulse: PulseConfig{
			DurationUS:        500,
			DutyPct:           25,
			CurrentMA:         1000,
			ShortThresholdUS:  5,
			IgnitionMaxWaitUS: 1000,
			ShortCooldownUS:   100,
			IgnitionTargetUS:  50,
		},
		Feed: FeedConfig{
			MinWaitUS:      25,
			MaxWaitUS:      1000,
			InitialWaitUS:  100,
			RetractTrigger: 8,
			RetractSteps:   128,
			PumpIntervalMS: 500,
			PumpSteps:      256,
		},
		Safety: SafetyConfig{HardAbortShorts: 1000},
		Report: ReportConfig{IntervalMS: 5000},
	}
}

// Load parses a YAML profile over the defaults and validates the result.
func Load(data []byte) (Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	if err := Validate(&p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// DrillParams converts the profile into the parameters of one drill
// invocation.
func (p Profile) DrillParams(targetSteps uint32, forward bool) core.DrillParams {
	return core.DrillParams{
		Discharge: core.DischargeParams{
			PulseDurationUS:   p.Pulse.DurationUS,
			DutyPct:           p.Pulse.DutyPct,
			ShortThresholdUS:  p.Pulse.ShortThresholdUS,
			IgnitionMaxWaitUS: p.Pulse.IgnitionMaxWaitUS,
			ShortCooldownUS:   p.Pulse.ShortCooldownUS,
		},
		Feed: core.FeedParams{
			TargetSteps:       targetSteps,
			Forward:           forward,
			MinWaitUS:         p.Feed.MinWaitUS,
			MaxWaitUS:         p.Feed.MaxWaitUS,
			RetractTrigger:    p.Feed.RetractTrigger,
			RetractSteps:      p.Feed.RetractSteps,
			PumpSteps:         p.Feed.PumpSteps,
			PumpIntervalTicks: uint64(p.Feed.PumpIntervalMS) * 1000,
		},
		Adapt: core.AdaptParams{
			TargetUS:  p.Pulse.IgnitionTargetUS,
			MinWaitUS: p.Feed.MinWaitUS,
			MaxWaitUS: p.Feed.MaxWaitUS,
		},
		CurrentMA:           p.Pulse.CurrentMA,
		InitialWaitUS:       p.Feed.InitialWaitUS,
		HardAbortThreshold:  p.Safety.HardAbortShorts,
		ReportIntervalTicks: uint64(p.Report.IntervalMS) * 1000,
	}
}
