package core

import "testing"

func testFeedParams() FeedParams {
	return FeedParams{
		TargetSteps:       10,
		Forward:           true,
		MinWaitUS:         2,
		MaxWaitUS:         100,
		RetractTrigger:    5,
		RetractSteps:      3,
		PumpSteps:         4,
		PumpIntervalTicks: 1000,
	}
}

func TestSteadyFeedCadence(t *testing.T) {
	p := testFeedParams()
	s := NewFeedState(p, 4)

	steps := 0
	var out FeedOutput
	for i := 0; i < 40; i++ {
		s, out = StepFeed(s, p, 0)
		if out.Step {
			steps++
			if !out.Forward {
				t.Fatalf("tick %d: reverse step during steady feed", i)
			}
		}
	}
	// One step every 4 ticks.
	if steps != 10 {
		t.Errorf("steps = %d, want 10", steps)
	}
	if s.Position != 10 {
		t.Errorf("position = %d, want 10", s.Position)
	}
	if !s.Done(p) {
		t.Error("target depth reached but Done() = false")
	}
}

func TestPositionMonotonicInSteadyFeed(t *testing.T) {
	p := testFeedParams()
	p.TargetSteps = 1 << 30
	s := NewFeedState(p, 3)

	last := s.Position
	for i := 0; i < 200; i++ {
		s, _ = StepFeed(s, p, 0)
		if s.Position < last {
			t.Fatalf("tick %d: position moved backward in steady feed", i)
		}
		last = s.Position
	}
}

func TestShortTriggeredRetract(t *testing.T) {
	p := testFeedParams()
	s := NewFeedState(p, 4)
	s.Position = 20

	// At the soft threshold the feed pulls back; no step on the
	// transition tick.
	s, out := StepFeed(s, p, p.RetractTrigger)
	if !out.Retract {
		t.Fatal("expected retract output")
	}
	if out.Step {
		t.Fatal("stepped on retract transition tick")
	}
	if s.Mode != FeedPulling {
		t.Fatalf("mode = %v, want pulling", s.Mode)
	}

	// Pull runs at the fast cadence, covers the full distance, and
	// returns straight to OK (no push on a short-triggered retract).
	reverseSteps := 0
	last := s.Position
	for s.Mode == FeedPulling {
		s, out = StepFeed(s, p, p.RetractTrigger)
		if out.Step {
			reverseSteps++
			if out.Forward {
				t.Fatal("forward step while pulling")
			}
			if s.Position >= last {
				t.Fatal("position did not decrease on pull step")
			}
			last = s.Position
		}
	}
	if s.Mode != FeedOK {
		t.Fatalf("mode = %v after pull, want ok", s.Mode)
	}
	if reverseSteps != int(p.RetractSteps) {
		t.Errorf("pull steps = %d, want %d", reverseSteps, p.RetractSteps)
	}
	if s.Position != 20-int32(p.RetractSteps) {
		t.Errorf("position = %d, want %d", s.Position, 20-int32(p.RetractSteps))
	}
}

func TestPumpCycleRoundTrips(t *testing.T) {
	p := testFeedParams()
	s := NewFeedState(p, 4)
	s.Position = 50
	s.TicksSincePump = p.PumpIntervalTicks

	s, out := StepFeed(s, p, 0)
	if !out.Retract {
		t.Fatal("expected pump cycle to start")
	}
	if s.Mode != FeedPulling {
		t.Fatalf("mode = %v, want pulling", s.Mode)
	}
	if s.TicksSincePump != 0 {
		t.Fatal("pump timer not reset")
	}

	sawPush := false
	for s.Mode != FeedOK {
		if s.Mode == FeedPushing {
			sawPush = true
		}
		s, _ = StepFeed(s, p, 0)
	}
	if !sawPush {
		t.Fatal("pump cycle skipped the push phase")
	}
	// Symmetric pull/push leaves the position where it started.
	if s.Position != 50 {
		t.Errorf("position = %d after pump, want 50", s.Position)
	}
}

func TestPumpOnlyTriggersInSteadyFeed(t *testing.T) {
	p := testFeedParams()
	s := NewFeedState(p, 4)
	s.TicksSincePump = p.PumpIntervalTicks

	// Short-triggered retract wins; the pump timer must not fire while
	// the pull is in progress.
	s, _ = StepFeed(s, p, p.RetractTrigger)
	if s.Mode != FeedPulling {
		t.Fatalf("mode = %v, want pulling", s.Mode)
	}
	if s.PushTarget != 0 {
		t.Fatal("short-triggered retract got a push distance")
	}
}

func TestDoneRequiresSteadyFeed(t *testing.T) {
	p := testFeedParams()
	s := NewFeedState(p, 4)
	s.Position = int32(p.TargetSteps)
	s.Mode = FeedPulling
	s.PullTarget = 2
	if s.Done(p) {
		t.Fatal("Done() = true during an unfinished pull cycle")
	}
	s.Mode = FeedOK
	if !s.Done(p) {
		t.Fatal("Done() = false at target depth in steady feed")
	}
}

func TestDoneWithReverseFeed(t *testing.T) {
	p := testFeedParams()
	p.Forward = false
	s := NewFeedState(p, 2)

	for i := 0; i < 100 && !s.Done(p); i++ {
		s, _ = StepFeed(s, p, 0)
	}
	if s.Position != -int32(p.TargetSteps) {
		t.Errorf("position = %d, want %d", s.Position, -int32(p.TargetSteps))
	}
}

func TestInitialWaitClamped(t *testing.T) {
	p := testFeedParams()
	if s := NewFeedState(p, 0); s.WaitTimeUS != p.MinWaitUS {
		t.Errorf("wait = %d, want clamped to %d", s.WaitTimeUS, p.MinWaitUS)
	}
	if s := NewFeedState(p, 1000); s.WaitTimeUS != p.MaxWaitUS {
		t.Errorf("wait = %d, want clamped to %d", s.WaitTimeUS, p.MaxWaitUS)
	}
}
