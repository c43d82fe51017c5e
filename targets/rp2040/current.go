//go:build rp2040

package main

import "machine"

// The ED board's current target is a PWM duty cycle: each level is one
// 100mA step, 80 levels full scale.
const currentLevelMax = 80

// The board low-passes the PWM into a DC reference; 50kHz keeps the
// ripple far above the filter corner.
const currentPWMPeriodNS = 20000

// initCurrentPWM configures the current-target pin and returns the level
// setter handed to the ED driver.
func initCurrentPWM() (func(level uint8), error) {
	pwm := machine.PWM0 // slice for pinEDCurrent

	err := pwm.Configure(machine.PWMConfig{Period: currentPWMPeriodNS})
	if err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pinEDCurrent)
	if err != nil {
		return nil, err
	}

	top := pwm.Top()
	pwm.Set(ch, 0)

	return func(level uint8) {
		if level > currentLevelMax {
			level = currentLevelMax
		}
		pwm.Set(ch, top*uint32(level)/currentLevelMax)
	}, nil
}
