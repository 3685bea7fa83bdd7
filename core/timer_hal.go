package core

// TickTimer is the periodic interrupt source that drives the PWM engine.
type TickTimer interface {
	// Start arms the timer so tick runs once every periodUS microseconds.
	// tick runs in interrupt context.
	Start(periodUS uint32, tick func()) error

	// MaskInterrupt clears the timer's interrupt enable so tick stops firing
	MaskInterrupt()

	// StopClock halts the timer counter itself
	StopClock()
}
