package core

import (
	"bytes"

	"poppy/protocol"
)

// InReportGate decides whether an IN report goes out on a host poll.
// A report is sent when forced, when it differs from the last one sent, or
// when the host's idle period has elapsed. Foreground context only.
type InReportGate struct {
	prev     [protocol.ReportSize]byte
	havePrev bool

	idleMS  uint32 // 0 means report only on change
	sinceMS uint32
}

// SetIdle applies a SET_IDLE rate in 4ms units (0 = indefinite)
func (g *InReportGate) SetIdle(rate uint8) {
	g.idleMS = uint32(rate) * 4
	g.sinceMS = 0
}

// IdleRate returns the idle rate in 4ms units
func (g *InReportGate) IdleRate() uint8 {
	return uint8(g.idleMS / 4)
}

// Elapse advances the idle clock, typically once per start-of-frame
func (g *InReportGate) Elapse(ms uint32) {
	if g.idleMS != 0 && g.sinceMS < g.idleMS {
		g.sinceMS += ms
	}
}

// ShouldSend reports whether report must be transmitted and, if so, records
// it as the last report sent
func (g *InReportGate) ShouldSend(report []byte, force bool) bool {
	changed := !g.havePrev || !bytes.Equal(g.prev[:], report)
	idleExpired := g.idleMS != 0 && g.sinceMS >= g.idleMS
	if !force && !changed && !idleExpired {
		return false
	}

	copy(g.prev[:], report)
	g.havePrev = true
	g.sinceMS = 0
	return true
}

// Forget drops the last report so the next poll sends unconditionally,
// used when the host reconfigures the device
func (g *InReportGate) Forget() {
	g.havePrev = false
	g.sinceMS = 0
}
