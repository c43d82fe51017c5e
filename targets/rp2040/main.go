//go:build rp2040

package main

import (
	"machine"
	"time"

	"edrill/config"
	"edrill/console"
	"edrill/core"
	"edrill/ed"
	"edrill/md"
)

const mdSPIBaudrate = 1 * machine.MHz // TMC2130 tops out at 4MHz

func output(pin machine.Pin) core.PinOut {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return func(high bool) { pin.Set(high) }
}

func input(pin machine.Pin, mode machine.PinMode) core.PinIn {
	pin.Configure(machine.PinConfig{Mode: mode})
	return func() bool { return pin.Get() }
}

// halt blinks the LED forever. Bring-up failures land here; there is no
// console yet to report them on.
func halt(led core.PinOut) {
	for {
		led(true)
		time.Sleep(100 * time.Millisecond)
		led(false)
		time.Sleep(100 * time.Millisecond)
	}
}

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	// This prevents issues with watchdog persisting across resets
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	led := output(machine.LED)
	led(true)

	err = machine.SPI0.Configure(machine.SPIConfig{
		Frequency: mdSPIBaudrate,
		SCK:       pinMDSCK,
		SDO:       pinMDSDO,
		SDI:       pinMDSDI,
		Mode:      2, // TMC2130: CPOL=1, CPHA=0
	})
	if err != nil {
		halt(led)
	}

	pulsers, err := initStepPulsers([]machine.Pin{pinMDStep0, pinMDStep1, pinMDStep2})
	if err != nil {
		halt(led)
	}

	setLevel, err := initCurrentPWM()
	if err != nil {
		halt(led)
	}

	clock := hardwareClock{}
	dir := output(pinMDDir)

	csns := []machine.Pin{pinMDCSN0, pinMDCSN1, pinMDCSN2}
	axes := make([]core.AxisDriver, len(pulsers))
	for i := range pulsers {
		p := pulsers[i]
		drv := md.New(md.Config{
			Bus: machine.SPI0,
			CSN: output(csns[i]),
			Step: func(high bool) {
				if high {
					p.Pulse()
				}
			},
			Dir: dir,
		})
		drv.Init()
		axes[i] = drv
	}

	board := ed.New(ed.Config{
		Mode:      output(pinEDMode),
		SenseGate: output(pinEDSenseGate),
		SenseCurr: input(pinEDSenseCurr, machine.PinInputPullup),
		Gate:      output(pinEDGate),
		Detect:    input(pinEDDetect, machine.PinInput),
		SetLevel:  setLevel,
		Clock:     clock,
	})
	board.Init()

	led(false)

	for {
		c := console.New(console.Config{
			Input:     serialIO{},
			Output:    serialIO{},
			Axes:      axes,
			Discharge: board,
			Clock:     clock,
			Profile:   config.Default(),
		})
		// Run only returns on a USB read error; reconnect and go again.
		c.Run()
		time.Sleep(100 * time.Millisecond)
	}
}
