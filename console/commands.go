package console

import (
	"fmt"

	"edrill/core"
)

const (
	// homeWaitUS paces homing at about one rotation per second,
	// assuming a 1.8 degree motor at 256 microsteps.
	homeWaitUS = 25

	// Register traffic is interleaved: the SPI transaction is slow
	// enough to stall the step cadence if done on every step.
	stallCheckInterval = 256

	// StallGuard readings are garbage while the motor is still
	// accelerating from rest; ignore the first rotation's worth.
	stallBlackoutSteps = 1000

	// findProbeInterval and findTouchUS control the electrode seek: a
	// proximity delay at or under findTouchUS counts as contact.
	findProbeInterval = 64
	findTouchUS       = 100
)

func (c *Console) execStatus() {
	for i, axis := range c.axes {
		fmt.Fprintf(c.out, "MD %d: %s\n", i, axis.Status())
	}
	if c.ed.Available() {
		fmt.Fprintf(c.out, "ED: OK\n")
	} else {
		fmt.Fprintf(c.out, "ED: NO_BOARD\n")
	}
}

func (c *Console) execStep(axis int, steps int64, waitUS uint64) {
	forward := steps > 0
	if steps < 0 {
		steps = -steps
	}
	for i := int64(0); i < steps; i++ {
		c.axes[axis].Step(forward)
		c.sleepUS(waitUS)
	}
	c.stamp()
	fmt.Fprintf(c.out, "step: DONE\n")
}

// execHome drives toward the hard stop until StallGuard fires.
func (c *Console) execHome(axis int, forward bool, timeoutMS uint64) {
	deadline := c.clock.NowMicros() + timeoutMS*1000
	board := c.axes[axis]

	for i := 0; ; i++ {
		if c.clock.NowMicros() >= deadline {
			c.stamp()
			fmt.Fprintf(c.out, "home: TIMEOUT\n")
			return
		}

		board.Step(forward)

		if i%stallCheckInterval == 0 && i > stallBlackoutSteps && board.Stalled() {
			c.stamp()
			fmt.Fprintf(c.out, "home: STALL detected i=%d\n", i)
			return
		}

		c.sleepUS(homeWaitUS)
	}
}

// execFind seeks the electrode toward the workpiece in sense mode until
// the proximity delay collapses to a touch.
func (c *Console) execFind(axis int, forward bool, timeoutMS uint64) {
	if !c.ed.Available() {
		fmt.Fprintf(c.out, "find: ED NO_BOARD\n")
		return
	}
	c.ed.ToSenseMode()

	deadline := c.clock.NowMicros() + timeoutMS*1000
	board := c.axes[axis]

	for i := 0; ; i++ {
		if c.clock.NowMicros() >= deadline {
			c.stamp()
			fmt.Fprintf(c.out, "find: TIMEOUT\n")
			return
		}

		if i%findProbeInterval == 0 {
			if d := c.ed.Proximity(); d >= 0 && d <= findTouchUS {
				c.stamp()
				fmt.Fprintf(c.out, "find: TOUCH i=%d delay=%d\n", i, d)
				return
			}
		}

		board.Step(forward)
		c.sleepUS(homeWaitUS)
	}
}

func (c *Console) execRegRead(axis int, addr uint8) {
	value := c.axes[axis].ReadRegister(addr)
	fmt.Fprintf(c.out, "board %d: reg 0x%02x = 0x%08x\n", axis, addr, value)
}

func (c *Console) execRegWrite(axis int, addr uint8, data uint32) {
	c.axes[axis].WriteRegister(addr, data)
	fmt.Fprintf(c.out, "board %d: reg 0x%02x set to 0x%08x\n", axis, addr, data)
}

func (c *Console) execProx(timeoutMS uint64) {
	deadline := c.clock.NowMicros() + timeoutMS*1000
	for c.clock.NowMicros() < deadline {
		fmt.Fprintf(c.out, "prox: %d\n", c.ed.Proximity())
		c.sleepUS(100 * 1000)
	}
}

// execEDExec is the pulse diagnostic: run the discharge machine alone
// for a fixed duration, without feeding, and summarize what the gap did.
func (c *Console) execEDExec(durationMS uint64, pulseDurUS, currentMA, dutyPct uint32) {
	if !c.ed.Available() {
		fmt.Fprintf(c.out, "edexec: ED NO_BOARD\n")
		return
	}

	params := core.DischargeParams{
		PulseDurationUS:   pulseDurUS,
		DutyPct:           dutyPct,
		ShortThresholdUS:  c.profile.Pulse.ShortThresholdUS,
		IgnitionMaxWaitUS: c.profile.Pulse.IgnitionMaxWaitUS,
		ShortCooldownUS:   c.profile.Pulse.ShortCooldownUS,
	}

	c.ed.ToDischargeMode()
	c.ed.SetCurrent(currentMA)
	defer c.ed.SetGate(false)

	stats := &core.Stats{}
	ds := core.DischargeState{}
	ticker := core.NewTicker(c.clock)

	gate := true
	c.ed.SetGate(true)
	durationTicks := durationMS * 1000

	for ticker.Tick() < durationTicks {
		detect := c.ed.Detect()
		var out core.DischargeOutput
		ds, out = core.StepDischarge(ds, params, detect)
		if out.Gate != gate {
			gate = out.Gate
			c.ed.SetGate(gate)
		}
		stats.Observe(out, core.FeedOutput{}, ds.SuccessiveShorts)
		ticker.Wait()
	}

	snap := stats.Snapshot(ticker.Tick(), 0, 0)
	fmt.Fprintf(c.out, "pulse count: %d success, %d short, %d timeout\n",
		snap.Pulses, snap.Shorts, snap.Timeouts)
	if snap.IgnitionSamples > 0 {
		fmt.Fprintf(c.out, "ignition delay(usec): avg=%d, min=%d, max=%d\n",
			snap.IgnitionAvgUS, snap.IgnitionMinUS, snap.IgnitionMaxUS)
	}
	c.stamp()
	fmt.Fprintf(c.out, "ED: exec done\n")
}

func (c *Console) execDrill(axis int, forward bool, steps uint32) {
	board := c.axes[axis]
	if status := board.Status(); status != core.BoardOK {
		fmt.Fprintf(c.out, "drill: MD %d %s\n", axis, status)
		return
	}
	if !c.ed.Available() {
		fmt.Fprintf(c.out, "drill: ED NO_BOARD\n")
		return
	}

	params := c.profile.DrillParams(steps, forward)
	outcome := core.RunDrill(board, c.ed, c.clock, params, func(s core.Snapshot) {
		c.printSnapshot(s)
	})

	c.printSnapshot(outcome.Stats)
	c.stamp()
	if outcome.Completed {
		fmt.Fprintf(c.out, "drill: DONE\n")
	} else {
		fmt.Fprintf(c.out, "drill: ABORT (%s)\n", outcome.Abort)
	}
}

func (c *Console) printSnapshot(s core.Snapshot) {
	fmt.Fprintf(c.out,
		"drill: tick=%d pos=%d wait=%dus pulses=%d shorts=%d timeouts=%d retracts=%d misses=%d ig=%d/%d/%dus\n",
		s.Tick, s.Position, s.WaitTimeUS,
		s.Pulses, s.Shorts, s.Timeouts, s.Retracts, s.TickMisses,
		s.IgnitionMinUS, s.IgnitionAvgUS, s.IgnitionMaxUS)
}

func (c *Console) execDrillCfg() {
	p := c.profile
	fmt.Fprintf(c.out, "pulse: dur=%dus duty=%d%% current=%dmA short<=%dus maxwait=%dus shortcool=%dus target=%dus\n",
		p.Pulse.DurationUS, p.Pulse.DutyPct, p.Pulse.CurrentMA,
		p.Pulse.ShortThresholdUS, p.Pulse.IgnitionMaxWaitUS,
		p.Pulse.ShortCooldownUS, p.Pulse.IgnitionTargetUS)
	fmt.Fprintf(c.out, "feed: wait=[%d,%d]us init=%dus retract@%d/%dsteps pump=%dms/%dsteps\n",
		p.Feed.MinWaitUS, p.Feed.MaxWaitUS, p.Feed.InitialWaitUS,
		p.Feed.RetractTrigger, p.Feed.RetractSteps,
		p.Feed.PumpIntervalMS, p.Feed.PumpSteps)
	fmt.Fprintf(c.out, "safety: abort@%d shorts\n", p.Safety.HardAbortShorts)
}

func (c *Console) execHelp() {
	fmt.Fprint(c.out, `commands:
  status
  step <board> <steps> <wait_us>
  home <board> <+|-> <timeout_ms>
  find <board> <+|-> <timeout_ms>
  regread <board> <addr_hex>
  regwrite <board> <addr_hex> <data_hex>
  prox <timeout_ms>
  edon | edoff
  edexec <duration_ms> <pulse_dur_us> <current_ma> <duty_pct>
  drill <board> <+|-> <steps>
  drillcfg
`)
}
