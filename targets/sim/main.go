//go:build !tinygo

// Command sim runs the indicator firmware on the desktop. Reports are read
// from stdin as hex, and the PWM output is summarised on stdout.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"poppy/core"
	"poppy/protocol"
)

var (
	configPath = flag.String("config", "", "JSON board config")
	tickUS     = flag.Uint("tick", 0, "Tick period in microseconds (overrides config)")
	boundary   = flag.String("boundary", "", "PWM boundary policy: exact or legacy (overrides config)")
	interval   = flag.Duration("interval", time.Second, "Duty report interval, 0 disables")
	debug      = flag.Bool("debug", false, "Enable debug output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	core.SetDebugWriter(func(s string) { fmt.Fprintln(os.Stderr, s) })
	core.SetDebugEnabled(*debug)

	pin := &consolePin{}
	timer := newTickerTimer()
	timer.after = pin.account
	device, err := core.NewDevice(cfg, core.Hardware{
		GPIO:       pin,
		Timer:      timer,
		USB:        consoleUSB{},
		Interrupts: core.CPUInterrupts{},
		Jump:       exitJump{},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := device.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	device.OnConnect()

	fmt.Println("Poppy simulator - enter hex reports or 'level N', 'boot', 'status', 'events', 'quit'")

	if *interval > 0 {
		go reportDuty(device, pin, *interval)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !handleLine(device, line) {
			break
		}
	}
	device.OnDisconnect()
}

func loadConfig() (core.Config, error) {
	cfg := core.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = core.LoadConfig(data); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", *configPath, err)
		}
	}
	if *tickUS != 0 {
		cfg.TickPeriodUS = uint32(*tickUS)
	}
	if *boundary != "" {
		if err := cfg.Boundary.UnmarshalText([]byte(*boundary)); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// handleLine runs one console command and returns false to quit
func handleLine(device *core.Device, line string) bool {
	parts := strings.Fields(line)

	switch parts[0] {
	case "quit", "exit", "q":
		return false

	case "level":
		if len(parts) != 2 {
			fmt.Println("usage: level N")
			return true
		}
		n, err := strconv.ParseUint(parts[1], 0, 8)
		if err != nil {
			fmt.Printf("invalid level: %v\n", err)
			return true
		}
		r := protocol.EncodeSetLevel(uint8(n))
		submit(device, r[:])

	case "boot":
		r := protocol.EncodeEnterBootloader()
		submit(device, r[:])

	case "status":
		var buf [protocol.ReportSize]byte
		n, send := device.PollReport(buf[:])
		fmt.Printf("IN report: % x (send=%v)\n", buf[:n], send)

	case "events":
		core.DumpEventRing()

	default:
		data, err := hex.DecodeString(strings.Join(parts, ""))
		if err != nil {
			fmt.Printf("not a command or hex report: %v\n", err)
			return true
		}
		submit(device, data)
	}
	return true
}

func submit(device *core.Device, report []byte) {
	if err := device.ProcessReport(report); err != nil {
		fmt.Printf("report rejected: %v\n", err)
		return
	}
	fmt.Printf("level=%d\n", device.Level())
}

func reportDuty(device *core.Device, pin *consolePin, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		on, total := pin.Sample()
		if total == 0 {
			continue
		}
		fmt.Printf("level=%2d duty=%5.1f%% %s\n", device.Level(),
			100*float64(on)/float64(total), bar(on, total))
	}
}

func bar(on, total uint32) string {
	const width = 32
	lit := int(uint64(on) * width / uint64(total))
	return "[" + strings.Repeat("#", lit) + strings.Repeat(".", width-lit) + "]"
}
