// Package indicator is the host-side client of a poppy indicator
package indicator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"poppy/protocol"
)

// MaxLevel is the brightest level the device displays
const MaxLevel = 15

// ErrUnexpectedReport is returned when the device answers with something
// other than the status report
var ErrUnexpectedReport = errors.New("unexpected status report")

// ReportConn carries fixed-size reports to and from the device
type ReportConn interface {
	// WriteReport sends one host-to-device report
	WriteReport(ctx context.Context, r protocol.Report) error

	// ReadReport returns the device-to-host report
	ReadReport(ctx context.Context) (protocol.Report, error)

	Close() error
}

// Status is the decoded device-to-host report
type Status struct {
	Report protocol.Report
	Level  int  // Last level set through this client, -1 if unknown
	Booted bool // True once EnterBootloader succeeded
}

// Client drives one indicator. It is safe for concurrent use.
type Client struct {
	conn ReportConn

	mu     sync.Mutex
	level  int
	booted bool
}

// NewClient creates a client on conn
func NewClient(conn ReportConn) *Client {
	return &Client{conn: conn, level: -1}
}

// SetLevel sends a SET_LEVEL report. Values above MaxLevel are sent as is
// and saturate on the device.
func (c *Client) SetLevel(ctx context.Context, level int) error {
	if level < 0 || level > 0xFF {
		return fmt.Errorf("level %d out of range 0..255", level)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.booted {
		return fmt.Errorf("device is in bootloader mode")
	}
	if err := c.conn.WriteReport(ctx, protocol.EncodeSetLevel(uint8(level))); err != nil {
		return fmt.Errorf("set level %d: %w", level, err)
	}
	c.level = level
	if c.level > MaxLevel {
		c.level = MaxLevel
	}
	return nil
}

// EnterBootloader sends the bootloader magic. The device detaches from the
// bus afterwards, so the connection is unusable once this returns nil.
func (c *Client) EnterBootloader(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.booted {
		return nil
	}
	if err := c.conn.WriteReport(ctx, protocol.EncodeEnterBootloader()); err != nil {
		return fmt.Errorf("enter bootloader: %w", err)
	}
	c.booted = true
	return nil
}

// Status reads the device-to-host report and checks its fixed pattern
func (c *Client) Status(ctx context.Context) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{Level: c.level, Booted: c.booted}
	if c.booted {
		return st, fmt.Errorf("device is in bootloader mode")
	}

	r, err := c.conn.ReadReport(ctx)
	if err != nil {
		return st, fmt.Errorf("read status: %w", err)
	}
	st.Report = r
	if r != protocol.StatusReport() {
		return st, fmt.Errorf("%w: % x", ErrUnexpectedReport, r[:])
	}
	return st, nil
}

// Close closes the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}
