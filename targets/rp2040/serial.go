//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"poppy/core"
	"poppy/protocol"
)

var frameOut [protocol.FrameLengthMax]byte

// serialReaderLoop moves CDC bytes into serialIn
func serialReaderLoop() {
	// Recover from panics to prevent a firmware crash
	defer func() {
		if r := recover(); r != nil {
			reportErrors++
			time.Sleep(100 * time.Millisecond)
			go serialReaderLoop()
		}
	}()

	for {
		if machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				reportErrors++
				time.Sleep(1 * time.Millisecond)
				continue
			}
			if serialIn.Write([]byte{b}) == 0 {
				// Buffer full
				reportErrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}

// handleFrame runs from the main loop for each valid serial frame. A report
// payload is applied; an empty payload is a status poll.
func handleFrame(seq uint8, payload []byte) {
	if len(payload) == 0 {
		writeStatusFrame()
		return
	}

	reportsReceived++
	if err := device.ProcessReport(payload); err != nil {
		reportErrors++
		core.DebugPrintln("[SERIAL] report: " + err.Error())
	}
}

func writeStatusFrame() {
	var report [protocol.ReportSize]byte
	n, _ := device.CreateReport(report[:])

	serialSeq = protocol.NextSeq(serialSeq)
	size := protocol.EncodeFrame(frameOut[:], protocol.FrameDestHost|serialSeq, report[:n])
	if size == 0 {
		return
	}
	if _, err := machine.Serial.Write(frameOut[:size]); err != nil {
		reportErrors++
	}
}
