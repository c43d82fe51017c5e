// Package md drives one CTRL-MINI-MD stepper board: a TMC2130 motor
// driver on a shared SPI bus plus dedicated STEP and chip-select lines.
// The bus is written against the drivers.SPI interface so the same code
// runs on hardware SPI under TinyGo and on an in-memory bus in tests.
//
// Board health is latched: any failure (absent board, open motor load,
// overtemperature, SPI protocol error) is permanent for the rest of the
// process run, and every call on a dead board is a no-op.
package md

import (
	"tinygo.org/x/drivers"

	"edrill/core"
)

// TMC2130 register addresses.
const (
	RegGCONF     = 0x00
	RegGSTAT     = 0x01
	RegCHOPCONF  = 0x6C
	RegDRVStatus = 0x6F
)

// DRV_STATUS bits.
const (
	drvStatusStallGuard = 1 << 24 // stallGuard: motor stalled
	drvStatusOpenLoadA  = 1 << 29 // ola: open load phase A
	drvStatusOpenLoadB  = 1 << 30 // olb: open load phase B
)

// GSTAT bits: over-temperature shutdown and undervoltage.
const gstatFaultMask = 0b110

// CHOPCONF vsense bit: high-sensitivity current sensing.
const chopconfVSense = 1 << 17

// Config wires a Driver to its board.
type Config struct {
	// Bus is the SPI bus shared by all axis boards.
	Bus drivers.SPI

	// CSN is the board's active-low chip select. Exactly one board's
	// CSN may be low at a time; the driver only holds it low for the
	// duration of one datagram.
	CSN core.PinOut

	// Step and Dir are the board's step/direction lines. Dir may be
	// shared across boards.
	Step core.PinOut
	Dir  core.PinOut
}

// Driver is one axis board. It implements core.AxisDriver.
type Driver struct {
	bus  drivers.SPI
	csn  core.PinOut
	step core.PinOut
	dir  core.PinOut

	status core.BoardStatus
}

// New returns a driver in the BoardNoBoard state; Init probes and
// configures the hardware.
func New(cfg Config) *Driver {
	cfg.CSN(true)
	cfg.Step(false)
	return &Driver{
		bus:    cfg.Bus,
		csn:    cfg.CSN,
		step:   cfg.Step,
		dir:    cfg.Dir,
		status: core.BoardNoBoard,
	}
}

// datagram exchanges one 40-bit TMC2130 SPI datagram. The reply always
// carries the register requested by the previous datagram.
func (d *Driver) datagram(addr uint8, write bool, data uint32) (uint32, bool) {
	if addr >= 0x80 {
		return 0, false
	}

	var tx, rx [5]byte
	tx[0] = addr
	if write {
		tx[0] |= 0x80
		tx[1] = byte(data >> 24)
		tx[2] = byte(data >> 16)
		tx[3] = byte(data >> 8)
		tx[4] = byte(data)
	}

	d.csn(false)
	err := d.bus.Tx(tx[:], rx[:])
	d.csn(true)
	if err != nil {
		return 0, false
	}

	return uint32(rx[1])<<24 | uint32(rx[2])<<16 | uint32(rx[3])<<8 | uint32(rx[4]), true
}

// readRegister does the two-phase TMC read: request the register, then
// shift its value out during a read of GCONF. GCONF is used as the dummy
// because it is plain R/W; a read-to-clear register like GSTAT would
// lose data on the double read.
func (d *Driver) readRegister(addr uint8) (uint32, bool) {
	if _, ok := d.datagram(addr, false, 0); !ok {
		return 0, false
	}
	return d.datagram(RegGCONF, false, 0)
}

// Init probes the board and configures it for drilling: verifies the
// motor is connected and enables high-sensitivity current sensing. It
// returns the resulting status, which is also latched.
func (d *Driver) Init() core.BoardStatus {
	d.status = core.BoardNoBoard

	drvStatus, ok := d.readRegister(RegDRVStatus)
	if !ok {
		return d.status
	}
	if drvStatus&(drvStatusOpenLoadA|drvStatusOpenLoadB) != 0 {
		d.status = core.BoardNoMotor
		return d.status
	}

	chopconf, ok := d.readRegister(RegCHOPCONF)
	if !ok {
		return d.status
	}
	if _, ok := d.datagram(RegCHOPCONF, true, chopconf|chopconfVSense); !ok {
		return d.status
	}

	d.status = core.BoardOK
	return d.status
}

// Status refreshes and returns the board health. A healthy board is
// polled for over-temperature / undervoltage shutdown; any fault found
// here is latched.
func (d *Driver) Status() core.BoardStatus {
	if d.status != core.BoardOK {
		return d.status
	}

	gstat, ok := d.readRegister(RegGSTAT)
	if !ok {
		d.status = core.BoardSPIError
	} else if gstat&gstatFaultMask != 0 {
		d.status = core.BoardOvertemp
	}
	return d.status
}

// Step emits one step pulse. The TMC2130 wants 20ns of DIR setup and
// ~100ns step high/low time; consecutive pin writes through the HAL are
// slower than that on every supported MCU.
func (d *Driver) Step(forward bool) {
	if d.status != core.BoardOK {
		return
	}
	d.dir(!forward)
	d.step(true)
	d.step(false)
}

// ReadRegister reads a driver register; 0 on a dead board.
func (d *Driver) ReadRegister(addr uint8) uint32 {
	if d.status != core.BoardOK {
		return 0
	}
	value, ok := d.readRegister(addr)
	if !ok {
		d.status = core.BoardSPIError
		return 0
	}
	return value
}

// WriteRegister writes a driver register.
func (d *Driver) WriteRegister(addr uint8, value uint32) {
	if d.status != core.BoardOK {
		return
	}
	if _, ok := d.datagram(addr, true, value); !ok {
		d.status = core.BoardSPIError
	}
}

// Stalled reports StallGuard. It reads DRV_STATUS over the bus, which is
// slow next to the step cadence; callers in motion loops must interleave
// it (query every N steps) or the axis slows down.
func (d *Driver) Stalled() bool {
	if d.status != core.BoardOK {
		return false
	}
	drvStatus, ok := d.readRegister(RegDRVStatus)
	if !ok {
		d.status = core.BoardSPIError
		return false
	}
	return drvStatus&drvStatusStallGuard != 0
}

// StallGuardResult extracts the 10-bit load measurement from a
// DRV_STATUS value.
func StallGuardResult(drvStatus uint32) uint32 {
	return drvStatus & 0x3FF
}
