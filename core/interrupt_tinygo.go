//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks all interrupts. The previous state is discarded
// because nothing runs after the handoff to restore it.
func disableInterrupts() {
	_ = interrupt.Disable()
}
