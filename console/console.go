// Package console is the line-oriented operator interface of the drill
// controller. It owns all text formatting; the control core only hands
// it structured snapshots. The console layer is also where an operator
// abort is absorbed — nothing inside the tick loop reads input, so
// command handling can never disturb pulse timing.
package console

import (
	"bufio"
	"fmt"
	"io"

	"edrill/config"
	"edrill/core"
)

// Input cancel characters: Ctrl-C and Ctrl-K abandon the current line.
const (
	ctrlC = 0x03
	ctrlK = 0x0B
)

// DischargeBoard is what the console needs from the discharge hardware.
type DischargeBoard interface {
	core.Discharge
	Available() bool
}

// Config wires a Console to its I/O stream and hardware.
type Config struct {
	Input  io.Reader
	Output io.Writer

	// Axes are the motor boards, indexed by board number.
	Axes []core.AxisDriver

	Discharge DischargeBoard

	Clock core.Clock

	// Profile holds the active drill parameters; drillcfg edits it.
	Profile config.Profile
}

// Console runs the operator command loop.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	axes    []core.AxisDriver
	ed      DischargeBoard
	clock   core.Clock
	profile config.Profile
}

func New(cfg Config) *Console {
	return &Console{
		in:      bufio.NewReader(cfg.Input),
		out:     cfg.Output,
		axes:    cfg.Axes,
		ed:      cfg.Discharge,
		clock:   cfg.Clock,
		profile: cfg.Profile,
	}
}

// Run reads and executes commands until the input stream ends.
func (c *Console) Run() {
	c.stamp()
	fmt.Fprintf(c.out, "init OK\n")
	c.execStatus()

	for {
		line, ok, err := c.readLine()
		if err != nil {
			return
		}
		fmt.Fprintf(c.out, "\n")
		c.stamp()
		if !ok {
			fmt.Fprintf(c.out, "command canceled\n")
			continue
		}
		fmt.Fprintf(c.out, "processing command\n")
		c.exec(line)
	}
}

// readLine collects one command line. Ctrl-C or Ctrl-K abandons it.
func (c *Console) readLine() (string, bool, error) {
	var buf []byte
	for {
		b, err := c.in.ReadByte()
		if err != nil {
			return "", false, err
		}
		switch b {
		case ctrlC, ctrlK:
			return "", false, nil
		case '\n', '\r':
			return string(buf), true, nil
		default:
			buf = append(buf, b)
		}
	}
}

// stamp prints the uptime prefix every response line group starts with.
func (c *Console) stamp() {
	us := c.clock.NowMicros()
	fmt.Fprintf(c.out, "%d.%03d ", us/1000000, (us/1000)%1000)
}

// sleepUS busy-waits on the injected clock. The MCU has nothing better
// to do between console-paced steps.
func (c *Console) sleepUS(us uint64) {
	deadline := c.clock.NowMicros() + us
	for c.clock.NowMicros() < deadline {
	}
}

func (c *Console) exec(line string) {
	cmd, args, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
		return
	}
	if cmd == "" {
		return
	}

	p := NewParser(args)
	switch cmd {
	case "status":
		c.execStatus()
	case "step":
		axis := c.parseAxis(p)
		steps := p.Int(-1000000, 1000000)
		wait := p.Int(0, 1000000)
		if c.flush(p) {
			c.execStep(axis, steps, uint64(wait))
		}
	case "home":
		axis := c.parseAxis(p)
		forward := p.Dir()
		timeoutMS := p.Int(0, 1000000)
		if c.flush(p) {
			c.execHome(axis, forward, uint64(timeoutMS))
		}
	case "find":
		axis := c.parseAxis(p)
		forward := p.Dir()
		timeoutMS := p.Int(0, 1000000)
		if c.flush(p) {
			c.execFind(axis, forward, uint64(timeoutMS))
		}
	case "regread":
		axis := c.parseAxis(p)
		addr := p.Hex(0x7F)
		if c.flush(p) {
			c.execRegRead(axis, uint8(addr))
		}
	case "regwrite":
		axis := c.parseAxis(p)
		addr := p.Hex(0x7F)
		data := p.Hex(0xFFFFFFFF)
		if c.flush(p) {
			c.execRegWrite(axis, uint8(addr), uint32(data))
		}
	case "prox":
		timeoutMS := p.Int(0, 1000000)
		if c.flush(p) {
			c.execProx(uint64(timeoutMS))
		}
	case "edon":
		c.ed.ToDischargeMode()
		fmt.Fprintf(c.out, "ED: switched to DISCHARGE\n")
	case "edoff":
		c.ed.ToSenseMode()
		fmt.Fprintf(c.out, "ED: switched to SENSE\n")
	case "edexec":
		durationMS := p.Int(1, 1000000)
		pulseDurUS := p.Int(1, 10000)
		currentMA := p.Int(1, 8000)
		duty := p.Int(1, 80)
		if c.flush(p) {
			c.execEDExec(uint64(durationMS), uint32(pulseDurUS), uint32(currentMA), uint32(duty))
		}
	case "drill":
		axis := c.parseAxis(p)
		forward := p.Dir()
		steps := p.Int(1, 1<<30)
		if c.flush(p) {
			c.execDrill(axis, forward, uint32(steps))
		}
	case "drillcfg":
		c.execDrillCfg()
	case "help":
		c.execHelp()
	default:
		fmt.Fprintf(c.out, "unknown command\n")
	}
}

// parseAxis parses a board index argument.
func (c *Console) parseAxis(p *Parser) int {
	return int(p.Int(0, int64(len(c.axes)-1)))
}

// flush reports parse success, printing the failure if there was one.
func (c *Console) flush(p *Parser) bool {
	if err := p.Err(); err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
		return false
	}
	return true
}
