//go:build rp2040

package main

import (
	"machine"
	"time"
)

// serialIO adapts the USB CDC console to io.Reader / io.Writer. Reads
// block; the console loop is the only thing running between commands.
type serialIO struct{}

func (serialIO) Read(p []byte) (int, error) {
	for machine.Serial.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}
	n := 0
	for n < len(p) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (serialIO) Write(p []byte) (int, error) {
	for _, b := range p {
		machine.Serial.WriteByte(b)
	}
	return len(p), nil
}
