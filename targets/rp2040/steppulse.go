//go:build rp2040

package main

// PIO step pulse generation. One state machine per STEP line: each FIFO
// word produces one hardware-timed pulse, so step width never depends on
// what the CPU is doing inside the tick loop.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildPulseProgram creates the pulse PIO program using AssemblerV0.
//
// Program flow:
//  1. Pull a word from the FIFO (the value is ignored)
//  2. Drive the step pin high for 8 cycles
//  3. Drive it low and wait for the next word
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 1: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 2: set pins, 0
		// .wrap
	}
}

const pulseProgramOrigin = 0 // Load at offset 0 for correct jump addresses

// 125MHz / 25 = 5MHz PIO clock; the 8-cycle pulse comes out 1.6us wide,
// well past the TMC2130's 100ns minimum step time.
const pulseClkDiv = 25

// stepPulser drives one STEP line through a claimed PIO state machine.
type stepPulser struct {
	sm  rp2pio.StateMachine
	pin machine.Pin
}

// initStepPulsers loads the pulse program into PIO0 once and brings up
// one state machine per step pin.
func initStepPulsers(pins []machine.Pin) ([]*stepPulser, error) {
	pio := rp2pio.PIO0

	program := buildPulseProgram()
	offset, err := pio.AddProgram(program, pulseProgramOrigin)
	if err != nil {
		return nil, err
	}

	pulsers := make([]*stepPulser, len(pins))
	for i, pin := range pins {
		sm := pio.StateMachine(uint8(i))
		sm.TryClaim()

		pin.Configure(machine.PinConfig{Mode: pio.PinMode()})

		cfg := rp2pio.DefaultStateMachineConfig()
		cfg.SetSetPins(pin, 1)
		cfg.SetOutShift(true, false, 32)
		cfg.SetWrap(offset+uint8(len(program))-1, offset)
		cfg.SetClkDivIntFrac(pulseClkDiv, 0)

		sm.Init(offset, cfg)

		// Pin directions must be set after Init.
		sm.SetPindirsConsecutive(pin, 1, true)
		sm.SetPinsConsecutive(pin, 1, false)

		sm.SetEnabled(true)
		pulsers[i] = &stepPulser{sm: sm, pin: pin}
	}
	return pulsers, nil
}

// Pulse emits one step pulse.
func (p *stepPulser) Pulse() {
	for p.sm.IsTxFIFOFull() {
		// Busy wait - should be very brief
	}
	p.sm.TxPut(1)
}
