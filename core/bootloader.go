// Bootloader handoff
// Quiesces the tick timer and USB before jumping to the bootloader image
package core

import "sync/atomic"

// HandoffState is the lifecycle of the bootloader handoff
type HandoffState uint32

const (
	HandoffRunning     HandoffState = iota // Normal operation
	HandoffQuiescing                       // Peripherals being disabled
	HandoffTransferred                     // Control given to the bootloader
)

// String returns a short name for the state
func (s HandoffState) String() string {
	switch s {
	case HandoffRunning:
		return "running"
	case HandoffQuiescing:
		return "quiescing"
	case HandoffTransferred:
		return "transferred"
	default:
		return "unknown"
	}
}

// Handoff performs the one-way transfer into the bootloader. The step order
// is fixed: timer interrupt masked, timer clock stopped, USB detached, all
// interrupts disabled, then the jump. There is no rollback.
type Handoff struct {
	state uint32 // atomic HandoffState

	timer TickTimer
	usb   Endpoint
	irq   InterruptController
	jump  ControlTransfer
	entry uintptr
}

// NewHandoff creates a handoff that jumps to entry
func NewHandoff(timer TickTimer, usb Endpoint, irq InterruptController, jump ControlTransfer, entry uintptr) *Handoff {
	return &Handoff{
		timer: timer,
		usb:   usb,
		irq:   irq,
		jump:  jump,
		entry: entry,
	}
}

// State returns the current handoff state
func (h *Handoff) State() HandoffState {
	return HandoffState(atomic.LoadUint32(&h.state))
}

// Entry returns the bootloader entry address
func (h *Handoff) Entry() uintptr {
	return h.entry
}

// Enter runs the quiesce sequence and transfers control. On hardware it
// never returns. Calls after the first one are ignored.
func (h *Handoff) Enter() {
	if !atomic.CompareAndSwapUint32(&h.state, uint32(HandoffRunning), uint32(HandoffQuiescing)) {
		return
	}

	// Stop the PWM tick before anything it could observe is torn down
	h.timer.MaskInterrupt()
	h.timer.StopClock()
	RecordEvent(EvtTimerDisabled, 0)

	h.usb.Detach()
	RecordEvent(EvtUSBDetached, 0)

	h.irq.DisableAll()
	RecordEvent(EvtInterruptsDisabled, 0)

	atomic.StoreUint32(&h.state, uint32(HandoffTransferred))
	RecordEvent(EvtTransfer, uint32(h.entry))
	h.jump.TransferControl(h.entry)
}
