//go:build !tinygo

package core

// disableInterrupts is a no-op on regular Go (for testing and the simulator)
func disableInterrupts() {}
