package core

import "sync/atomic"

// PWM resolution
const (
	MaxSteps = 16           // Ticks per PWM cycle
	MaxLevel = MaxSteps - 1 // Highest brightness level
)

// ClampLevel saturates a raw level byte into [0, MaxLevel]
func ClampLevel(raw uint8) uint8 {
	if raw < MaxLevel {
		return raw
	}
	return MaxLevel
}

// Level is the brightness level shared by the report handler and the tick
// interrupt. Writes come only from the foreground context; the tick only reads.
type Level struct {
	value uint32 // atomic
}

// Load returns the current level
func (l *Level) Load() uint8 {
	return uint8(atomic.LoadUint32(&l.value))
}

// Store clamps raw and publishes it, returning the stored value
func (l *Level) Store(raw uint8) uint8 {
	v := ClampLevel(raw)
	atomic.StoreUint32(&l.value, uint32(v))
	return v
}
