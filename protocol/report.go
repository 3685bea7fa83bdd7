package protocol

// Report is one fixed-size report exchanged with the host
type Report [ReportSize]byte

// EncodeSetLevel builds a SET_LEVEL report for the given raw level.
// The device saturates the value, so any byte is accepted here.
func EncodeSetLevel(level uint8) Report {
	var r Report
	r[LevelOffset] = level
	return r
}

// EncodeEnterBootloader builds an ENTER_BOOTLOADER report
func EncodeEnterBootloader() Report {
	var r Report
	r[0] = MagicFirst
	r[1] = MagicSecond
	return r
}

// IsBootloaderRequest reports whether data starts with the magic sequence.
// Both bytes must match; MagicFirst alone selects SET_LEVEL.
func IsBootloaderRequest(data []byte) bool {
	return len(data) >= 2 && data[0] == MagicFirst && data[1] == MagicSecond
}

// RawLevel returns the unclamped level byte of a SET_LEVEL report
func RawLevel(data []byte) (uint8, bool) {
	if len(data) <= LevelOffset {
		return 0, false
	}
	return data[LevelOffset], true
}

// PutStatusReport writes the device status report into buf and returns the
// number of bytes that make up the report. Bytes past the status pattern are
// zeroed up to ReportSize. Returns 0 if buf cannot hold a full report.
func PutStatusReport(buf []byte) int {
	if len(buf) < ReportSize {
		return 0
	}
	n := copy(buf, statusPattern[:])
	for i := n; i < ReportSize; i++ {
		buf[i] = 0
	}
	return ReportSize
}

// StatusReport returns the device status report
func StatusReport() Report {
	var r Report
	PutStatusReport(r[:])
	return r
}
