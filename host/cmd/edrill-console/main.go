// edrill-console is the operator terminal for the drill controller: it
// bridges stdin and stdout to the firmware's command console over a
// serial device, and optionally checks a drill profile before connecting.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"edrill/config"
	"edrill/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	profile = flag.String("profile", "", "Drill profile YAML to validate before connecting")
)

func main() {
	flag.Parse()

	if *profile != "" {
		if err := checkProfile(*profile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("Connected to %s (Ctrl-D to exit)\n", *device)

	// Firmware output is copied to stdout as it arrives; the console
	// prompt lives on the device side, so there is nothing to echo.
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := port.Read(buf)
			if n > 0 {
				os.Stdout.Write(buf[:n])
			}
			if err != nil && err != io.EOF {
				fmt.Fprintf(os.Stderr, "Error: serial read: %v\n", err)
				os.Exit(1)
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if _, err := port.Write([]byte(line + "\n")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: serial write: %v\n", err)
			os.Exit(1)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// checkProfile loads and validates a profile YAML, then prints the
// resulting settings. The firmware currently boots with its built-in
// defaults; this is a pre-flight check for the values an operator is
// about to dial in by hand.
func checkProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p, err := config.Load(data)
	if err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}

	fmt.Printf("Profile %s OK\n", path)
	fmt.Printf("  pulse: %dus at %d%% duty, %dmA\n",
		p.Pulse.DurationUS, p.Pulse.DutyPct, p.Pulse.CurrentMA)
	fmt.Printf("  feed:  wait %d..%dus, retract %d steps after %d shorts\n",
		p.Feed.MinWaitUS, p.Feed.MaxWaitUS, p.Feed.RetractSteps, p.Feed.RetractTrigger)
	fmt.Printf("  abort: %d consecutive shorts\n", p.Safety.HardAbortShorts)
	return nil
}
