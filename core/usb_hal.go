package core

// Endpoint is the host communication channel, seen from the handoff side.
// Enumeration and report transfer belong to the platform USB stack.
type Endpoint interface {
	// Detach disconnects from the bus so the host observes an orderly
	// disconnect, then resets the controller.
	Detach()
}

// InterruptController masks every interrupt source on the CPU
type InterruptController interface {
	DisableAll()
}

// ControlTransfer jumps into another program image at entry.
// Real implementations never return.
type ControlTransfer interface {
	TransferControl(entry uintptr)
}
