// Package protocol implements the poppy indicator report protocol
package protocol

// Version represents the poppy firmware version
const Version = "0.1.0"

// Report layout constants
const (
	ReportSize = 8 // Fixed report size in both directions

	MagicFirst  = 0xAA // Byte 0 of the bootloader magic sequence
	MagicSecond = 0xBB // Byte 1 of the bootloader magic sequence

	LevelOffset = 2 // Byte carrying the requested brightness level
)

// statusPattern is the constant payload of every device-to-host report
var statusPattern = [...]byte{0x00, 0x01, 0x02, 0x03}
