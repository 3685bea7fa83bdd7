package indicator

import (
	"context"
	"errors"
	"testing"

	"poppy/protocol"
)

type fakeConn struct {
	written  []protocol.Report
	status   protocol.Report
	writeErr error
	readErr  error
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{status: protocol.StatusReport()}
}

func (f *fakeConn) WriteReport(_ context.Context, r protocol.Report) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, r)
	return nil
}

func (f *fakeConn) ReadReport(context.Context) (protocol.Report, error) {
	return f.status, f.readErr
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestSetLevel(t *testing.T) {
	conn := newFakeConn()
	c := NewClient(conn)
	ctx := context.Background()

	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{7, 7},
		{15, 15},
		{200, MaxLevel},
	}
	for _, tt := range tests {
		if err := c.SetLevel(ctx, tt.level); err != nil {
			t.Fatalf("SetLevel(%d): %v", tt.level, err)
		}
		last := conn.written[len(conn.written)-1]
		if last != protocol.EncodeSetLevel(uint8(tt.level)) {
			t.Errorf("SetLevel(%d) wrote % x", tt.level, last[:])
		}
		st, err := c.Status(ctx)
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if st.Level != tt.want {
			t.Errorf("after SetLevel(%d) status level = %d, want %d", tt.level, st.Level, tt.want)
		}
	}
}

func TestSetLevelRange(t *testing.T) {
	c := NewClient(newFakeConn())
	for _, level := range []int{-1, 256} {
		if err := c.SetLevel(context.Background(), level); err == nil {
			t.Errorf("SetLevel(%d) should fail", level)
		}
	}
}

func TestSetLevelWriteError(t *testing.T) {
	conn := newFakeConn()
	conn.writeErr = errors.New("pipe broken")
	c := NewClient(conn)

	err := c.SetLevel(context.Background(), 3)
	if !errors.Is(err, conn.writeErr) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
	st, _ := c.Status(context.Background())
	if st.Level != -1 {
		t.Errorf("failed write should not record a level, got %d", st.Level)
	}
}

func TestEnterBootloader(t *testing.T) {
	conn := newFakeConn()
	c := NewClient(conn)
	ctx := context.Background()

	if err := c.EnterBootloader(ctx); err != nil {
		t.Fatalf("EnterBootloader: %v", err)
	}
	if err := c.EnterBootloader(ctx); err != nil {
		t.Fatalf("second EnterBootloader: %v", err)
	}
	if len(conn.written) != 1 || conn.written[0] != protocol.EncodeEnterBootloader() {
		t.Errorf("expected a single magic report, got %v", conn.written)
	}
	if err := c.SetLevel(ctx, 1); err == nil {
		t.Error("SetLevel after the handoff should fail")
	}
	if _, err := c.Status(ctx); err == nil {
		t.Error("Status after the handoff should fail")
	}
}

func TestStatusUnexpected(t *testing.T) {
	conn := newFakeConn()
	conn.status[0] = 0xFF
	c := NewClient(conn)

	if _, err := c.Status(context.Background()); !errors.Is(err, ErrUnexpectedReport) {
		t.Errorf("expected ErrUnexpectedReport, got %v", err)
	}
}

func TestClose(t *testing.T) {
	conn := newFakeConn()
	if err := NewClient(conn).Close(); err != nil || !conn.closed {
		t.Errorf("Close() = %v, closed = %v", err, conn.closed)
	}
}
