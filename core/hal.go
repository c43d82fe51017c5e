// Hardware abstraction consumed by the control core.
// Targets wire these to real pins and buses; tests wire fakes.
package core

// PinOut drives a single output line.
type PinOut func(high bool)

// PinIn samples a single input line.
type PinIn func() bool

// BoardStatus is the health of one motor-driver board. Any value other
// than BoardOK is latched for the rest of the process run; the board
// cannot be revived without a full reset.
type BoardStatus uint8

const (
	BoardOK BoardStatus = iota
	BoardNoBoard
	BoardNoMotor
	BoardOvertemp
	BoardSPIError
)

func (s BoardStatus) String() string {
	switch s {
	case BoardOK:
		return "OK"
	case BoardNoBoard:
		return "NO_BOARD"
	case BoardNoMotor:
		return "NO_MOTOR"
	case BoardOvertemp:
		return "OVERTEMP"
	case BoardSPIError:
		return "SPI_ERROR"
	default:
		return "UNKNOWN"
	}
}

// AxisDriver is one stepper-motor driver board. Implementations must
// turn every call into a no-op (or safe default) once Status is not
// BoardOK.
type AxisDriver interface {
	// Step emits one step pulse in the given direction.
	Step(forward bool)

	// Status returns the current board health, refreshing it from the
	// hardware where possible.
	Status() BoardStatus

	// ReadRegister reads a driver-chip register. Returns 0 on a dead
	// board.
	ReadRegister(addr uint8) uint32

	// WriteRegister writes a driver-chip register.
	WriteRegister(addr uint8, value uint32)

	// Stalled reports whether the motor has hit a mechanical
	// obstruction (StallGuard).
	Stalled() bool
}

// Discharge is the discharge/sense hardware.
type Discharge interface {
	// SetCurrent sets the target discharge current in milliamps.
	SetCurrent(milliamps uint32)

	// SetGate directly asserts or releases the discharge gate. The
	// caller owns all timing.
	SetGate(on bool)

	// Detect samples the ignition/contact detector.
	Detect() bool

	// ToDischargeMode switches the output relay to discharge.
	ToDischargeMode()

	// ToSenseMode switches the output relay to low-energy sensing.
	ToSenseMode()

	// Proximity measures the sense-current rise delay in microseconds.
	// Larger values mean a wider gap. Returns a negative value if the
	// board is unavailable.
	Proximity() int
}
