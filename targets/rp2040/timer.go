//go:build rp2040 || rp2350

package main

import (
	"runtime/interrupt"
)

// The runtime sleeps on alarm 0, so the PWM tick uses alarm 1
const tickAlarmBit = 1 << 1

// alarmTimer is a periodic tick built on the hardware microsecond timer
type alarmTimer struct {
	periodUS uint32
	next     uint32
	tick     func()
}

var tickAlarm alarmTimer

// Start arms alarm 1 to fire every periodUS microseconds and calls tick
// from the interrupt
func (t *alarmTimer) Start(periodUS uint32, tick func()) error {
	t.periodUS = periodUS
	t.tick = tick

	intr := interrupt.New(tickIRQ, tickISR)
	intr.SetPriority(0x00)

	tickTimer.INTR.Set(tickAlarmBit)
	tickTimer.INTE.SetBits(tickAlarmBit)
	intr.Enable()

	t.next = tickTimer.TIMERAWL.Get() + periodUS
	tickTimer.ALARM1.Set(t.next)
	return nil
}

// MaskInterrupt stops alarm 1 from raising its interrupt
func (t *alarmTimer) MaskInterrupt() {
	tickTimer.INTE.ClearBits(tickAlarmBit)
}

// StopClock disarms alarm 1. The microsecond counter itself keeps running
// because the runtime and the ROM boot code rely on it.
func (t *alarmTimer) StopClock() {
	tickTimer.ARMED.Set(tickAlarmBit)
	tickTimer.INTR.Set(tickAlarmBit)
}

func tickISR(interrupt.Interrupt) {
	tickTimer.INTR.Set(tickAlarmBit)

	// Rearm relative to the previous deadline so the period does not drift
	tickAlarm.next += tickAlarm.periodUS
	tickTimer.ALARM1.Set(tickAlarm.next)

	tickAlarm.tick()
}
