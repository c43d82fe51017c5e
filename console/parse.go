package console

import (
	"fmt"
	"strconv"

	"github.com/google/shlex"
)

// Tokenize splits one command line into the command word and its
// arguments.
func Tokenize(line string) (string, []string, error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return "", nil, fmt.Errorf("bad command line: %w", err)
	}
	if len(fields) == 0 {
		return "", nil, nil
	}
	return fields[0], fields[1:], nil
}

// Parser consumes command arguments left to right. The first failure
// sticks: later calls return zero values and the error survives until
// Err is checked. Bounds are inclusive.
type Parser struct {
	args []string
	ix   int
	err  error
}

func NewParser(args []string) *Parser {
	return &Parser{args: args}
}

// Err returns the first parse failure, if any.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) next(expecting string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	if p.ix >= len(p.args) {
		p.err = fmt.Errorf("arg%d missing: expecting %s", p.ix, expecting)
		return "", false
	}
	arg := p.args[p.ix]
	return arg, true
}

// Int parses a decimal integer within [min, max].
func (p *Parser) Int(min, max int64) int64 {
	arg, ok := p.next("int")
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("arg%d: invalid int %q", p.ix, arg)
		return 0
	}
	if v < min || v > max {
		p.err = fmt.Errorf("arg%d must be in [%d, %d]", p.ix, min, max)
		return 0
	}
	p.ix++
	return v
}

// Hex parses a hexadecimal integer no larger than max.
func (p *Parser) Hex(max uint64) uint64 {
	arg, ok := p.next("hex")
	if !ok {
		return 0
	}
	v, err := strconv.ParseUint(arg, 16, 64)
	if err != nil {
		p.err = fmt.Errorf("arg%d: invalid hex %q", p.ix, arg)
		return 0
	}
	if v > max {
		p.err = fmt.Errorf("arg%d must be <= %x", p.ix, max)
		return 0
	}
	p.ix++
	return v
}

// Dir parses a direction sign: "+" is forward.
func (p *Parser) Dir() bool {
	arg, ok := p.next("+ or -")
	if !ok {
		return false
	}
	switch arg {
	case "+":
		p.ix++
		return true
	case "-":
		p.ix++
		return false
	default:
		p.err = fmt.Errorf("arg%d: invalid direction %q", p.ix, arg)
		return false
	}
}
