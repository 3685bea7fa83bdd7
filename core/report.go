// Report channel adapter
// Turns inbound host reports into level updates or the bootloader handoff
package core

import (
	"poppy/protocol"
)

// CommandKind identifies a decoded host command
type CommandKind uint8

const (
	CommandSetLevel        CommandKind = iota // Byte 2 carries the level
	CommandEnterBootloader                    // Report starts with the magic sequence
)

// Command is the decoded form of one inbound report
type Command struct {
	Kind  CommandKind
	Level uint8 // Clamped level, CommandSetLevel only
}

// DecodeCommand decodes an inbound report. Only bytes 0..2 are consulted.
func DecodeCommand(data []byte) (Command, error) {
	if len(data) < protocol.ReportSize {
		return Command{}, ErrShortReport
	}
	if protocol.IsBootloaderRequest(data) {
		return Command{Kind: CommandEnterBootloader}, nil
	}
	return Command{
		Kind:  CommandSetLevel,
		Level: ClampLevel(data[protocol.LevelOffset]),
	}, nil
}

// Bootloader is the handoff invoked by the magic sequence
type Bootloader interface {
	Enter()
}

// ReportChannel is the adapter between the host transport and the device
// state. It runs in the foreground context.
type ReportChannel struct {
	level      *Level
	bootloader Bootloader
}

// NewReportChannel creates an adapter writing into level
func NewReportChannel(level *Level, bootloader Bootloader) *ReportChannel {
	return &ReportChannel{
		level:      level,
		bootloader: bootloader,
	}
}

// ProcessReport handles one host-to-device report. A short report is
// rejected with ErrShortReport and changes nothing. The bootloader command
// does not return on hardware.
func (c *ReportChannel) ProcessReport(data []byte) error {
	cmd, err := DecodeCommand(data)
	if err != nil {
		RecordEvent(EvtReportRejected, uint32(len(data)))
		return err
	}

	switch cmd.Kind {
	case CommandEnterBootloader:
		RecordEvent(EvtBootloaderRequest, 0)
		DebugPrintln("[REPORT] bootloader requested")
		c.bootloader.Enter()
	default:
		stored := c.level.Store(cmd.Level)
		RecordEvent(EvtLevelSet, uint32(stored))
	}
	return nil
}

// CreateReport fills buf with the device-to-host report. It returns the
// report size and whether the transport must send it even if unchanged;
// force is always false.
func (c *ReportChannel) CreateReport(buf []byte) (size int, force bool) {
	return protocol.PutStatusReport(buf), false
}
