package protocol

import (
	"bytes"
	"testing"
)

type capturedFrame struct {
	seq     uint8
	payload []byte
}

func newCapture(dest uint8) (*FrameDecoder, *[]capturedFrame) {
	var frames []capturedFrame
	dec := NewFrameDecoder(dest, func(seq uint8, payload []byte) {
		frames = append(frames, capturedFrame{seq: seq, payload: append([]byte(nil), payload...)})
	})
	return dec, &frames
}

func encode(t *testing.T, seq uint8, payload []byte) []byte {
	t.Helper()
	buf := make([]byte, FrameLengthMax)
	n := EncodeFrame(buf, seq, payload)
	if n == 0 {
		t.Fatalf("EncodeFrame failed for payload % x", payload)
	}
	return buf[:n]
}

func TestEncodeFrameLayout(t *testing.T) {
	r := EncodeSetLevel(7)
	frame := encode(t, FrameDestDevice|3, r[:])

	if len(frame) != FrameOverhead+ReportSize {
		t.Fatalf("Expected %d byte frame, got %d", FrameOverhead+ReportSize, len(frame))
	}
	if frame[FramePositionLen] != uint8(len(frame)) {
		t.Errorf("Length byte %d does not match frame length %d", frame[FramePositionLen], len(frame))
	}
	if frame[FramePositionSeq] != 0x13 {
		t.Errorf("Expected seq 0x13, got 0x%02X", frame[FramePositionSeq])
	}
	if frame[len(frame)-1] != FrameValueSync {
		t.Errorf("Frame must end with sync byte, got 0x%02X", frame[len(frame)-1])
	}
	crc := CRC16(frame[:len(frame)-FrameTrailerSize])
	if frame[len(frame)-3] != uint8(crc>>8) || frame[len(frame)-2] != uint8(crc) {
		t.Errorf("CRC trailer mismatch: % x", frame)
	}
}

func TestEncodeFrameLimits(t *testing.T) {
	if n := EncodeFrame(make([]byte, 64), FrameDestDevice, make([]byte, ReportSize+1)); n != 0 {
		t.Errorf("Oversized payload should not encode, got %d", n)
	}
	if n := EncodeFrame(make([]byte, FrameOverhead), FrameDestDevice, make([]byte, ReportSize)); n != 0 {
		t.Errorf("Short destination should not encode, got %d", n)
	}
	if n := EncodeFrame(make([]byte, FrameOverhead), FrameDestDevice, nil); n != FrameOverhead {
		t.Errorf("Empty payload should encode to %d bytes, got %d", FrameOverhead, n)
	}
}

func TestNextSeq(t *testing.T) {
	if got := NextSeq(0x10); got != 0x11 {
		t.Errorf("NextSeq(0x10) = 0x%02X, want 0x11", got)
	}
	if got := NextSeq(0x1F); got != 0x10 {
		t.Errorf("NextSeq(0x1F) = 0x%02X, want 0x10", got)
	}
	if got := NextSeq(0x0F); got != 0x00 {
		t.Errorf("NextSeq(0x0F) = 0x%02X, want 0x00", got)
	}
}

func TestFrameDecoderRoundTrip(t *testing.T) {
	dec, frames := newCapture(FrameDestDevice)
	r := EncodeEnterBootloader()

	dec.Write(encode(t, FrameDestDevice, r[:]))
	dec.Write(encode(t, FrameDestDevice|1, nil))

	if len(*frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(*frames))
	}
	if got := (*frames)[0]; got.seq != FrameDestDevice || !bytes.Equal(got.payload, r[:]) {
		t.Errorf("Unexpected first frame: seq=0x%02X payload=% x", got.seq, got.payload)
	}
	if got := (*frames)[1]; got.seq != FrameDestDevice|1 || len(got.payload) != 0 {
		t.Errorf("Unexpected poll frame: seq=0x%02X payload=% x", got.seq, got.payload)
	}
}

func TestFrameDecoderByteAtATime(t *testing.T) {
	dec, frames := newCapture(FrameDestDevice)
	stream := append(encode(t, FrameDestDevice, []byte{0, 0, 3, 0, 0, 0, 0, 0}),
		encode(t, FrameDestDevice|1, []byte{0, 0, 4, 0, 0, 0, 0, 0})...)

	for _, b := range stream {
		dec.Write([]byte{b})
	}

	if len(*frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(*frames))
	}
	if (*frames)[0].payload[LevelOffset] != 3 || (*frames)[1].payload[LevelOffset] != 4 {
		t.Errorf("Frames decoded out of order: %v", *frames)
	}
}

func TestFrameDecoderResync(t *testing.T) {
	dec, frames := newCapture(FrameDestDevice)
	good := encode(t, FrameDestDevice, []byte{0, 0, 9, 0, 0, 0, 0, 0})

	stream := append([]byte{0x01, 0x02, FrameValueSync}, good...)
	dec.Write(stream)

	if len(*frames) != 1 || (*frames)[0].payload[LevelOffset] != 9 {
		t.Fatalf("Expected decoder to resync onto the good frame, got %v", *frames)
	}
	if dec.Dropped() == 0 {
		t.Error("Garbage prefix should count as a dropped frame")
	}
}

func TestFrameDecoderBadCRC(t *testing.T) {
	dec, frames := newCapture(FrameDestDevice)
	bad := encode(t, FrameDestDevice, []byte{0, 0, 1, 0, 0, 0, 0, 0})
	bad[FrameHeaderSize+LevelOffset] = 2
	good := encode(t, FrameDestDevice|1, []byte{0, 0, 5, 0, 0, 0, 0, 0})

	dec.Write(append(bad, good...))

	if len(*frames) != 1 {
		t.Fatalf("Expected only the good frame, got %d frames", len(*frames))
	}
	if (*frames)[0].payload[LevelOffset] != 5 {
		t.Errorf("Wrong frame delivered: % x", (*frames)[0].payload)
	}
}

func TestFrameDecoderWrongDestination(t *testing.T) {
	dec, frames := newCapture(FrameDestHost)
	dec.Write(encode(t, FrameDestDevice, []byte{0, 0, 1, 0, 0, 0, 0, 0}))

	if len(*frames) != 0 {
		t.Errorf("Host decoder accepted a device-bound frame: %v", *frames)
	}
}

func TestFrameDecoderOverflow(t *testing.T) {
	dec, frames := newCapture(FrameDestDevice)

	// A long run without any sync byte must not wedge the decoder
	junk := bytes.Repeat([]byte{0x01}, 10*FrameLengthMax)
	if n, err := dec.Write(junk); n != len(junk) || err != nil {
		t.Fatalf("Write returned %d, %v", n, err)
	}
	dec.Write([]byte{FrameValueSync})
	dec.Write(encode(t, FrameDestDevice, []byte{0, 0, 6, 0, 0, 0, 0, 0}))

	if len(*frames) != 1 || (*frames)[0].payload[LevelOffset] != 6 {
		t.Errorf("Decoder did not recover after junk: %v", *frames)
	}
}
