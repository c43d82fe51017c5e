// Package ed wraps the electro-discharge board: an output relay that
// selects between a low-energy sense circuit and the discharge supply, a
// current-programmable pulse gate, and the ignition/contact detector.
//
// The board is probed once at init. If it does not answer, every later
// call is ignored; the discharge path must never be driven blind.
package ed

import (
	"time"

	"edrill/core"
)

const (
	// Relay settle time after switching the output mode.
	relaySettle = 100 * time.Millisecond

	// ioSettle covers pin slew after reconfiguring the sense lines.
	ioSettle = time.Millisecond

	// Programmable current range, in 100mA units per level.
	MinCurrentMA = 100
	MaxCurrentMA = 8000

	// proximityTimeoutUS bounds one proximity measurement.
	proximityTimeoutUS = 100 * 1000
)

// Config wires an Interface to the board.
type Config struct {
	// Mode selects the output relay: low = sense, high = discharge.
	Mode core.PinOut

	// SenseGate enables the sense-current source. SenseCurr is the
	// sense-current comparator; the board holds it low at rest, so a
	// floating (high) line at init means no board.
	SenseGate core.PinOut
	SenseCurr core.PinIn

	// Gate is the discharge pulse gate; Detect the ignition detector.
	Gate   core.PinOut
	Detect core.PinIn

	// SetLevel programs the discharge current in 100mA units (1..80).
	SetLevel func(level uint8)

	// Clock times proximity measurements.
	Clock core.Clock

	// Sleep, if nil, defaults to time.Sleep. Tests inject a recorder.
	Sleep func(d time.Duration)
}

// Interface is the discharge board handle. It implements core.Discharge.
type Interface struct {
	cfg       Config
	sleep     func(time.Duration)
	connected bool
	discharge bool
}

func New(cfg Config) *Interface {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Interface{cfg: cfg, sleep: sleep}
}

// Init drives the board to the safe sense state and probes for its
// presence. Returns whether the board answered.
func (e *Interface) Init() bool {
	e.cfg.Gate(false)
	e.cfg.Mode(false)
	e.sleep(relaySettle)

	e.cfg.SenseGate(false)
	e.sleep(ioSettle)

	// A present board holds SENSE_CURR low at rest.
	if e.cfg.SenseCurr() {
		e.connected = false
		return false
	}
	e.connected = true
	return true
}

// Available reports whether the board answered at init.
func (e *Interface) Available() bool {
	return e.connected
}

// ToDischargeMode switches the output relay to the discharge supply.
// The gate is released before the relay moves so the contacts never
// break a live arc.
func (e *Interface) ToDischargeMode() {
	if !e.connected || e.discharge {
		return
	}
	e.cfg.Gate(false)
	e.cfg.Mode(true)
	e.sleep(relaySettle)
	e.discharge = true
}

// ToSenseMode switches the output relay back to the sense circuit.
func (e *Interface) ToSenseMode() {
	if !e.connected || !e.discharge {
		return
	}
	e.cfg.Gate(false)
	e.cfg.Mode(false)
	e.sleep(relaySettle)
	e.discharge = false
}

// SetCurrent programs the target discharge current, clamped to the
// board's 100mA..8A range.
func (e *Interface) SetCurrent(milliamps uint32) {
	if !e.connected {
		return
	}
	if milliamps < MinCurrentMA {
		milliamps = MinCurrentMA
	}
	if milliamps > MaxCurrentMA {
		milliamps = MaxCurrentMA
	}
	e.cfg.SetLevel(uint8(milliamps / 100))
}

// SetGate directly drives the discharge gate. Timing is entirely the
// caller's problem. Releasing is always allowed; asserting needs a live
// board.
func (e *Interface) SetGate(on bool) {
	if on && !e.connected {
		return
	}
	e.cfg.Gate(on)
}

// Detect samples the ignition/contact detector.
func (e *Interface) Detect() bool {
	if !e.connected {
		return false
	}
	return e.cfg.Detect()
}

// Proximity measures how long the sense current takes to rise, in
// microseconds. A wider gap gives a larger delay. Must be called in
// sense mode. Returns -1 if the board is unavailable.
func (e *Interface) Proximity() int {
	if !e.connected || e.discharge {
		return -1
	}

	start := e.cfg.Clock.NowMicros()
	e.cfg.SenseGate(true)

	var delay uint64
	for {
		delay = e.cfg.Clock.NowMicros() - start
		if e.cfg.SenseCurr() || delay >= proximityTimeoutUS {
			break
		}
	}

	e.cfg.SenseGate(false)
	// Let the sense line decay so the next measurement starts clean.
	e.sleep(100 * time.Microsecond)

	return int(delay)
}
