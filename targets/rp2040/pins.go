//go:build rp2040

package main

import "machine"

// CTRL board pin assignment.
//
// The three motor boards share one SPI bus and the DIR line; each board
// has its own CSN and STEP. The ED board hangs off plain GPIO plus one
// PWM slice for the current target.
const (
	pinMDSCK = machine.GPIO2
	pinMDSDO = machine.GPIO3
	pinMDSDI = machine.GPIO4

	pinMDCSN0 = machine.GPIO5
	pinMDCSN1 = machine.GPIO6
	pinMDCSN2 = machine.GPIO7

	pinMDStep0 = machine.GPIO8
	pinMDStep1 = machine.GPIO9
	pinMDStep2 = machine.GPIO10
	pinMDDir   = machine.GPIO11

	pinEDMode      = machine.GPIO12
	pinEDSenseGate = machine.GPIO13
	pinEDSenseCurr = machine.GPIO14
	pinEDGate      = machine.GPIO15
	pinEDDetect    = machine.GPIO16
	pinEDCurrent   = machine.GPIO17 // PWM slice 0
)
