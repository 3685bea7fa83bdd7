package protocol

// FifoBuffer accumulates serial bytes until a complete frame is available.
// Unread bytes are kept contiguous so Data never allocates.
type FifoBuffer struct {
	buf   []byte
	start int
	end   int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the number of bytes taken
func (f *FifoBuffer) Write(data []byte) int {
	if f.end+len(data) > len(f.buf) {
		f.compact()
	}
	n := copy(f.buf[f.end:], data)
	f.end += n
	return n
}

// Available returns the number of unread bytes
func (f *FifoBuffer) Available() int {
	return f.end - f.start
}

// Free returns the number of bytes that can still be written
func (f *FifoBuffer) Free() int {
	return len(f.buf) - f.Available()
}

// Data returns the unread bytes. The slice is only valid until the next Write.
func (f *FifoBuffer) Data() []byte {
	return f.buf[f.start:f.end]
}

// Pop discards n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if n > f.Available() {
		n = f.Available()
	}
	f.start += n
	if f.start == f.end {
		f.start, f.end = 0, 0
	}
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.start, f.end = 0, 0
}

func (f *FifoBuffer) compact() {
	if f.start == 0 {
		return
	}
	f.end = copy(f.buf, f.buf[f.start:f.end])
	f.start = 0
}
