package config

import (
	"strings"
	"testing"
)

func TestDefaultProfileIsValid(t *testing.T) {
	p := Default()
	if err := Validate(&p); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	p, err := Load([]byte(`
pulse:
  duration_us: 200
  current_ma: 2000
feed:
  retract_trigger: 5
`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Pulse.DurationUS != 200 || p.Pulse.CurrentMA != 2000 {
		t.Errorf("pulse overrides not applied: %+v", p.Pulse)
	}
	if p.Feed.RetractTrigger != 5 {
		t.Errorf("feed override not applied: %+v", p.Feed)
	}
	// Untouched fields keep their reset values.
	if p.Pulse.DutyPct != 25 || p.Feed.MinWaitUS != 25 {
		t.Errorf("defaults lost: %+v", p)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load([]byte("pulse: [")); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{"duty too high", func(p *Profile) { p.Pulse.DutyPct = 90 }, "duty_pct"},
		{"current too low", func(p *Profile) { p.Pulse.CurrentMA = 50 }, "current_ma"},
		{"target below short threshold", func(p *Profile) { p.Pulse.IgnitionTargetUS = 3 }, "ignition_target_us"},
		{"wait band inverted", func(p *Profile) { p.Feed.MaxWaitUS = 10 }, "max_wait_us"},
		{"initial wait outside band", func(p *Profile) { p.Feed.InitialWaitUS = 5000 }, "initial_wait_us"},
		{"pump without distance", func(p *Profile) { p.Feed.PumpSteps = 0 }, "pump_steps"},
		{"hard abort below retract trigger", func(p *Profile) { p.Safety.HardAbortShorts = 4 }, "hard_abort_shorts"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Default()
			tc.mutate(&p)
			err := Validate(&p)
			if err == nil {
				t.Fatal("invalid profile accepted")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestDrillParamsConversion(t *testing.T) {
	p := Default()
	dp := p.DrillParams(5000, false)

	if dp.Feed.TargetSteps != 5000 || dp.Feed.Forward {
		t.Errorf("target/direction not carried: %+v", dp.Feed)
	}
	if dp.Discharge.PulseDurationUS != p.Pulse.DurationUS {
		t.Errorf("pulse duration not carried")
	}
	if dp.Adapt.MinWaitUS != p.Feed.MinWaitUS || dp.Adapt.MaxWaitUS != p.Feed.MaxWaitUS {
		t.Errorf("adapt band not aligned with feed band: %+v", dp.Adapt)
	}
	if dp.Feed.PumpIntervalTicks != uint64(p.Feed.PumpIntervalMS)*1000 {
		t.Errorf("pump interval = %d ticks, want ms*1000", dp.Feed.PumpIntervalTicks)
	}
	if dp.ReportIntervalTicks != uint64(p.Report.IntervalMS)*1000 {
		t.Errorf("report interval = %d ticks, want ms*1000", dp.ReportIntervalTicks)
	}
}
