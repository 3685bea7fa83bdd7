//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"poppy/core"
	"poppy/protocol"
)

var (
	device *core.Device

	// Serial link state
	serialIn  *protocol.FifoBuffer
	decoder   *protocol.FrameDecoder
	serialSeq uint8

	// Debug counters
	reportsReceived uint32
	reportErrors    uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)

	cfg := boardConfig()
	device, err = core.NewDevice(cfg, core.Hardware{
		GPIO:       newIndicatorDriver(),
		Timer:      &tickAlarm,
		USB:        usbPort{},
		Interrupts: core.CPUInterrupts{},
		Jump:       romJump{},
	})
	if err != nil {
		DebugPrintln("[MAIN] device: " + err.Error())
		return
	}

	// USB before the timer so the host sees us quickly
	InitUSB()

	if err := device.Init(); err != nil {
		DebugPrintln("[MAIN] init: " + err.Error())
		return
	}

	serialIn = protocol.NewFifoBuffer(256)
	decoder = protocol.NewFrameDecoder(protocol.FrameDestDevice, handleFrame)

	go serialReaderLoop()

	lastPoll := time.Now()
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					reportErrors++
					serialIn.Reset()
					decoder.Reset()
				}
			}()

			serviceUSB()

			// Feed buffered serial bytes to the frame decoder
			if serialIn.Available() > 0 {
				n, _ := decoder.Write(serialIn.Data())
				serialIn.Pop(n)
			}

			// HID IN reports
			now := time.Now()
			if elapsed := now.Sub(lastPoll); elapsed >= time.Millisecond {
				device.ElapseMS(uint32(elapsed / time.Millisecond))
				lastPoll = now
				sendInReport()
			}
		}()

		// Yield to other goroutines
		time.Sleep(100 * time.Microsecond)
	}
}
