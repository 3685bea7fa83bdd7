package protocol

// Serial frame layout: [len][seq][payload...][crc hi][crc lo][sync]
const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameOverhead    = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = FrameOverhead + ReportSize

	FramePositionLen = 0
	FramePositionSeq = 1
	FrameTrailerCRC  = 3
	FrameTrailerSync = 1
	FrameValueSync   = 0x7E

	FrameDestDevice = 0x10 // High nibble of host-to-device sequence bytes
	FrameDestHost   = 0x00 // High nibble of device-to-host sequence bytes
	FrameSeqMask    = 0x0F
)

// EncodeFrame writes payload as a frame into dst and returns the frame length.
// Returns 0 if the payload is too long or dst is too small.
func EncodeFrame(dst []byte, seq uint8, payload []byte) int {
	n := FrameOverhead + len(payload)
	if n > FrameLengthMax || len(dst) < n {
		return 0
	}
	dst[FramePositionLen] = uint8(n)
	dst[FramePositionSeq] = seq
	copy(dst[FrameHeaderSize:], payload)
	crc := CRC16(dst[:n-FrameTrailerSize])
	dst[n-FrameTrailerCRC] = uint8(crc >> 8)
	dst[n-FrameTrailerCRC+1] = uint8(crc)
	dst[n-FrameTrailerSync] = FrameValueSync
	return n
}

// NextSeq returns the sequence byte following seq within the same destination
func NextSeq(seq uint8) uint8 {
	return (seq &^ FrameSeqMask) | ((seq + 1) & FrameSeqMask)
}

// FrameHandler receives the sequence byte and payload of each valid frame.
// The payload slice is only valid for the duration of the call.
type FrameHandler func(seq uint8, payload []byte)

// FrameDecoder reassembles frames from a byte stream. Corrupt input is
// discarded and the decoder resynchronises on the next sync byte.
type FrameDecoder struct {
	input   *FifoBuffer
	dest    uint8
	synced  bool
	handler FrameHandler

	dropped uint32
}

// NewFrameDecoder creates a decoder accepting frames addressed to dest
func NewFrameDecoder(dest uint8, handler FrameHandler) *FrameDecoder {
	return &FrameDecoder{
		input:   NewFifoBuffer(4 * FrameLengthMax),
		dest:    dest,
		synced:  true,
		handler: handler,
	}
}

// Write feeds stream bytes to the decoder. It never fails.
func (d *FrameDecoder) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		n := d.input.Write(p)
		p = p[n:]
		d.decode()
		if n == 0 && len(p) > 0 {
			// Buffer full of bytes that never formed a frame
			d.input.Reset()
			d.synced = false
			d.dropped++
		}
	}
	return total, nil
}

// Dropped returns the number of frames discarded as corrupt
func (d *FrameDecoder) Dropped() uint32 {
	return d.dropped
}

// Reset discards buffered input
func (d *FrameDecoder) Reset() {
	d.input.Reset()
	d.synced = true
}

func (d *FrameDecoder) decode() {
	data := d.input.Data()
	start := len(data)

	for len(data) > 0 {
		if !d.synced {
			syncPos := -1
			for i, b := range data {
				if b == FrameValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.synced = true
			continue
		}

		if data[0] == FrameValueSync {
			data = data[1:]
			continue
		}
		if len(data) < FrameOverhead {
			break
		}

		frameLen := int(data[FramePositionLen])
		if frameLen < FrameOverhead || frameLen > FrameLengthMax {
			d.desync()
			continue
		}
		seq := data[FramePositionSeq]
		if seq&^FrameSeqMask != d.dest {
			d.desync()
			continue
		}
		if len(data) < frameLen {
			break
		}
		if data[frameLen-FrameTrailerSync] != FrameValueSync {
			d.desync()
			continue
		}
		frameCRC := uint16(data[frameLen-FrameTrailerCRC])<<8 |
			uint16(data[frameLen-FrameTrailerCRC+1])
		if frameCRC != CRC16(data[:frameLen-FrameTrailerSize]) {
			d.desync()
			continue
		}

		payload := data[FrameHeaderSize : frameLen-FrameTrailerSize]
		data = data[frameLen:]
		if d.handler != nil {
			d.handler(seq, payload)
		}
	}

	d.input.Pop(start - len(data))
}

func (d *FrameDecoder) desync() {
	d.synced = false
	d.dropped++
}
