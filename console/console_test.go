package console

import (
	"bytes"
	"strings"
	"testing"

	"edrill/config"
	"edrill/core"
)

type fakeAxis struct {
	status     core.BoardStatus
	steps      []bool
	regs       map[uint8]uint32
	stallAfter int
}

func (a *fakeAxis) Step(forward bool) { a.steps = append(a.steps, forward) }
func (a *fakeAxis) Status() core.BoardStatus {
	return a.status
}
func (a *fakeAxis) ReadRegister(addr uint8) uint32 { return a.regs[addr] }
func (a *fakeAxis) WriteRegister(addr uint8, v uint32) {
	if a.regs == nil {
		a.regs = map[uint8]uint32{}
	}
	a.regs[addr] = v
}
func (a *fakeAxis) Stalled() bool {
	return a.stallAfter > 0 && len(a.steps) >= a.stallAfter
}

type fakeED struct {
	available bool
	discharge bool
	gate      bool
	current   uint32
	proxima   []int // successive Proximity() results; last repeats
	proxCalls int
	detectFn  func() bool
}

func (e *fakeED) Available() bool        { return e.available }
func (e *fakeED) SetCurrent(ma uint32)   { e.current = ma }
func (e *fakeED) SetGate(on bool)        { e.gate = on }
func (e *fakeED) ToDischargeMode()       { e.discharge = true }
func (e *fakeED) ToSenseMode()           { e.discharge = false }
func (e *fakeED) Detect() bool {
	if e.detectFn == nil {
		return false
	}
	return e.detectFn()
}
func (e *fakeED) Proximity() int {
	if len(e.proxima) == 0 {
		return -1
	}
	i := e.proxCalls
	if i >= len(e.proxima) {
		i = len(e.proxima) - 1
	}
	e.proxCalls++
	return e.proxima[i]
}

// runConsole executes the given input against fresh fakes and returns
// the transcript.
func runConsole(t *testing.T, input string, axis *fakeAxis, ed *fakeED) string {
	t.Helper()
	var out bytes.Buffer
	c := New(Config{
		Input:     strings.NewReader(input),
		Output:    &out,
		Axes:      []core.AxisDriver{axis},
		Discharge: ed,
		Clock:     &core.SimClock{OnRead: func(c *core.SimClock) { c.Advance(1) }},
		Profile:   config.Default(),
	})
	c.Run()
	return out.String()
}

func okAxis() *fakeAxis { return &fakeAxis{status: core.BoardOK} }
func okED() *fakeED     { return &fakeED{available: true} }

func TestStatusCommand(t *testing.T) {
	out := runConsole(t, "status\n", okAxis(), okED())
	if !strings.Contains(out, "MD 0: OK") {
		t.Errorf("missing board status in %q", out)
	}
	if !strings.Contains(out, "ED: OK") {
		t.Errorf("missing ED status in %q", out)
	}
}

func TestStatusReportsDeadHardware(t *testing.T) {
	out := runConsole(t, "status\n", &fakeAxis{status: core.BoardOvertemp}, &fakeED{})
	if !strings.Contains(out, "MD 0: OVERTEMP") || !strings.Contains(out, "ED: NO_BOARD") {
		t.Errorf("fault states not reported in %q", out)
	}
}

func TestStepCommand(t *testing.T) {
	axis := okAxis()
	out := runConsole(t, "step 0 3 0\n", axis, okED())
	if len(axis.steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(axis.steps))
	}
	for _, fwd := range axis.steps {
		if !fwd {
			t.Error("positive step count moved in reverse")
		}
	}
	if !strings.Contains(out, "step: DONE") {
		t.Errorf("missing completion in %q", out)
	}

	axis = okAxis()
	runConsole(t, "step 0 -2 0\n", axis, okED())
	if len(axis.steps) != 2 || axis.steps[0] {
		t.Errorf("negative count: steps = %v", axis.steps)
	}
}

func TestStepRejectsOutOfRangeArgs(t *testing.T) {
	axis := okAxis()
	out := runConsole(t, "step 0 2000000 0\n", axis, okED())
	if len(axis.steps) != 0 {
		t.Error("out-of-range command still stepped")
	}
	if !strings.Contains(out, "must be in") {
		t.Errorf("missing range error in %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	out := runConsole(t, "frobnicate\n", okAxis(), okED())
	if !strings.Contains(out, "unknown command") {
		t.Errorf("missing diagnostic in %q", out)
	}
}

func TestCtrlCCancelsLine(t *testing.T) {
	axis := okAxis()
	out := runConsole(t, "step 0 5 0\x03status\n", axis, okED())
	if len(axis.steps) != 0 {
		t.Error("canceled command executed")
	}
	if !strings.Contains(out, "command canceled") {
		t.Errorf("missing cancel notice in %q", out)
	}
	// The line after the cancel still runs.
	if strings.Count(out, "MD 0: OK") != 2 { // banner + status command
		t.Errorf("follow-up command lost in %q", out)
	}
}

func TestRegReadWrite(t *testing.T) {
	axis := okAxis()
	axis.regs = map[uint8]uint32{0x6F: 0x00123456}
	out := runConsole(t, "regread 0 6f\nregwrite 0 6c deadbeef\n", axis, okED())
	if !strings.Contains(out, "reg 0x6f = 0x00123456") {
		t.Errorf("regread output wrong: %q", out)
	}
	if axis.regs[0x6C] != 0xDEADBEEF {
		t.Errorf("regwrite did not land: %x", axis.regs[0x6C])
	}
}

func TestHomeDetectsStall(t *testing.T) {
	axis := okAxis()
	axis.stallAfter = 1200
	out := runConsole(t, "home 0 - 1000000\n", axis, okED())
	if !strings.Contains(out, "home: STALL detected") {
		t.Errorf("missing stall detection in %q", out)
	}
	// Stall polls are interleaved and blacked out early, so the stop
	// lands on the first check past both limits.
	if len(axis.steps) < 1200 || len(axis.steps) > 1600 {
		t.Errorf("stopped after %d steps", len(axis.steps))
	}
}

func TestFindReportsTouch(t *testing.T) {
	axis := okAxis()
	ed := okED()
	ed.proxima = []int{5000, 4000, 50}
	out := runConsole(t, "find 0 + 1000000\n", axis, ed)
	if !strings.Contains(out, "find: TOUCH") {
		t.Errorf("missing touch report in %q", out)
	}
	if ed.discharge {
		t.Error("find left the board in discharge mode")
	}
}

func TestDrillCompletes(t *testing.T) {
	axis := okAxis()
	ed := okED()
	out := runConsole(t, "drill 0 + 10\n", axis, ed)
	if !strings.Contains(out, "drill: DONE") {
		t.Errorf("missing completion in %q", out)
	}
	if len(axis.steps) != 10 {
		t.Errorf("steps = %d, want 10", len(axis.steps))
	}
	if ed.gate {
		t.Error("gate still asserted after drill")
	}
}

func TestDrillRefusesDeadBoard(t *testing.T) {
	axis := &fakeAxis{status: core.BoardNoBoard}
	out := runConsole(t, "drill 0 + 10\n", axis, okED())
	if !strings.Contains(out, "drill: MD 0 NO_BOARD") {
		t.Errorf("missing refusal in %q", out)
	}
	if len(axis.steps) != 0 {
		t.Error("dead board stepped")
	}
}

func TestEDExecSummarizes(t *testing.T) {
	ed := okED()
	ed.detectFn = func() bool { return true } // dead short the whole time
	out := runConsole(t, "edexec 1 50 500 25\n", okAxis(), ed)
	if !strings.Contains(out, "ED: exec done") {
		t.Errorf("missing completion in %q", out)
	}
	if !strings.Contains(out, "short") {
		t.Errorf("missing short count in %q", out)
	}
	if ed.gate {
		t.Error("gate still asserted after edexec")
	}
}
