//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 timer peripheral memory map. The timer is a free-running 64-bit
// microsecond counter; the control core's tick reads it directly.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// hardwareClock implements core.Clock on the RP2040 hardware timer.
type hardwareClock struct{}

// NowMicros reads the full 64-bit microsecond counter.
// Must read high first, then low, then high again to detect rollover.
func (hardwareClock) NowMicros() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		// If high didn't change, we got a consistent reading.
		if high1 == high2 {
			return uint64(high1)<<32 | uint64(low)
		}
		// Otherwise retry (rollover happened during read).
	}
}
