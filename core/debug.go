package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a foreground event for post-mortem analysis
type Event struct {
	Type  uint8  // Event type code
	Seq   uint32 // Monotonic sequence number
	Value uint32 // Context-dependent value
}

// Event type codes
const (
	EvtReportRejected     = 1 // Inbound report too short
	EvtLevelSet           = 2 // Brightness level stored
	EvtBootloaderRequest  = 3 // Magic sequence received
	EvtTimerDisabled      = 4 // Tick interrupt masked and clock stopped
	EvtUSBDetached        = 5 // Host channel detached
	EvtInterruptsDisabled = 6 // Global interrupts masked
	EvtTransfer           = 7 // Jump to bootloader entry
	EvtUSBConnect         = 8 // Host connected
	EvtUSBDisconnect      = 9 // Host disconnected
	EvtUSBConfigured      = 10
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool

	// Event ring, written only from the foreground context
	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventSeq      uint32
)

// SetDebugWriter sets the platform-specific debug output function.
// This allows platforms to redirect debug output to UART, USB CDC, stdout.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Never call from the tick path.
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer. Non-blocking, O(1).
func RecordEvent(eventType uint8, value uint32) {
	eventSeq++
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:  eventType,
		Seq:   eventSeq,
		Value: value,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events from oldest to newest
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a printable name for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtReportRejected:
		return "REPORT_REJECTED"
	case EvtLevelSet:
		return "LEVEL_SET"
	case EvtBootloaderRequest:
		return "BOOTLOADER_REQ"
	case EvtTimerDisabled:
		return "TIMER_OFF"
	case EvtUSBDetached:
		return "USB_DETACH"
	case EvtInterruptsDisabled:
		return "IRQ_OFF"
	case EvtTransfer:
		return "TRANSFER"
	case EvtUSBConnect:
		return "USB_CONNECT"
	case EvtUSBDisconnect:
		return "USB_DISCONNECT"
	case EvtUSBConfigured:
		return "USB_CONFIGURED"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing writes the event ring through the debug writer regardless
// of the enabled flag
func DumpEventRing() {
	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENT] " + EventName(evt.Type) +
			" seq=" + utoa(evt.Seq) +
			" value=" + hex32(evt.Value))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	eventSeq = 0
}
