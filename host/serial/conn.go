package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"poppy/protocol"
)

// ErrNoReply is returned when the device does not answer a status poll
var ErrNoReply = errors.New("no status reply")

// DefaultReplyTimeout bounds ReadReport when ctx has no deadline
const DefaultReplyTimeout = time.Second

// ReportConn exchanges framed reports with the device over a serial port
type ReportConn struct {
	port Port

	mu      sync.Mutex
	seq     uint8
	decoder *protocol.FrameDecoder
	reply   *protocol.Report
	out     [protocol.FrameLengthMax]byte
	in      [64]byte
}

// NewReportConn wraps port
func NewReportConn(port Port) *ReportConn {
	c := &ReportConn{port: port}
	c.decoder = protocol.NewFrameDecoder(protocol.FrameDestHost, c.handleFrame)
	return c
}

// Dial opens the serial device described by cfg
func Dial(cfg *Config) (*ReportConn, error) {
	port, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewReportConn(port), nil
}

func (c *ReportConn) handleFrame(_ uint8, payload []byte) {
	if len(payload) != protocol.ReportSize {
		return
	}
	var r protocol.Report
	copy(r[:], payload)
	c.reply = &r
}

func (c *ReportConn) send(payload []byte) error {
	c.seq = protocol.NextSeq(c.seq)
	n := protocol.EncodeFrame(c.out[:], protocol.FrameDestDevice|c.seq, payload)
	if n == 0 {
		return fmt.Errorf("payload of %d bytes does not fit a frame", len(payload))
	}
	if _, err := c.port.Write(c.out[:n]); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// WriteReport sends a host-to-device report
func (c *ReportConn) WriteReport(_ context.Context, r protocol.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(r[:])
}

// ReadReport polls the device and waits for its status frame
func (c *ReportConn) ReadReport(ctx context.Context) (protocol.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultReplyTimeout)
		defer cancel()
	}

	c.reply = nil
	c.decoder.Reset()
	if err := c.send(nil); err != nil {
		return protocol.Report{}, err
	}

	for c.reply == nil {
		if err := ctx.Err(); err != nil {
			return protocol.Report{}, fmt.Errorf("%w: %v", ErrNoReply, err)
		}
		n, err := c.port.Read(c.in[:])
		if n > 0 {
			c.decoder.Write(c.in[:n])
		}
		if err != nil && err != io.EOF {
			return protocol.Report{}, fmt.Errorf("read frame: %w", err)
		}
	}
	return *c.reply, nil
}

// Close closes the port
func (c *ReportConn) Close() error {
	return c.port.Close()
}
