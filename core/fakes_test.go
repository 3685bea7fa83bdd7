package core

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	pins       map[GPIOPin]bool
	configured map[GPIOPin]bool
	writes     []bool
	failConfig error
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		pins:       make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	if m.failConfig != nil {
		return m.failConfig
	}
	m.configured[pin] = true
	m.pins[pin] = false
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) {
	m.pins[pin] = value
	m.writes = append(m.writes, value)
}

// callLog records collaborator calls in order
type callLog struct {
	calls []string
}

func (l *callLog) add(name string) {
	l.calls = append(l.calls, name)
}

// mockTimer records calls and lets tests fire the tick by hand
type mockTimer struct {
	log      *callLog
	periodUS uint32
	tick     func()
	started  bool
	masked   bool
	stopped  bool
	failWith error
}

func (m *mockTimer) Start(periodUS uint32, tick func()) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.periodUS = periodUS
	m.tick = tick
	m.started = true
	return nil
}

func (m *mockTimer) MaskInterrupt() {
	m.masked = true
	m.log.add("timer.mask")
}

func (m *mockTimer) StopClock() {
	m.stopped = true
	m.log.add("timer.stop")
}

// fire delivers n ticks unless the interrupt is masked or the clock stopped
func (m *mockTimer) fire(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		if !m.started || m.masked || m.stopped {
			break
		}
		m.tick()
		delivered++
	}
	return delivered
}

type mockUSB struct {
	log     *callLog
	onSteps func()
}

func (m *mockUSB) Detach() {
	m.log.add("usb.detach")
	if m.onSteps != nil {
		m.onSteps()
	}
}

type mockIRQ struct {
	log *callLog
}

func (m *mockIRQ) DisableAll() {
	m.log.add("irq.disable")
}

type mockJump struct {
	log     *callLog
	entries []uintptr
}

func (m *mockJump) TransferControl(entry uintptr) {
	m.log.add("jump")
	m.entries = append(m.entries, entry)
}

type mockHardware struct {
	log   *callLog
	gpio  *MockGPIODriver
	timer *mockTimer
	usb   *mockUSB
	irq   *mockIRQ
	jump  *mockJump
}

func newMockHardware() *mockHardware {
	log := &callLog{}
	return &mockHardware{
		log:   log,
		gpio:  NewMockGPIODriver(),
		timer: &mockTimer{log: log},
		usb:   &mockUSB{log: log},
		irq:   &mockIRQ{log: log},
		jump:  &mockJump{log: log},
	}
}

func (m *mockHardware) Hardware() Hardware {
	return Hardware{
		GPIO:       m.gpio,
		Timer:      m.timer,
		USB:        m.usb,
		Interrupts: m.irq,
		Jump:       m.jump,
	}
}

// fakeBootloader counts handoff requests
type fakeBootloader struct {
	calls int
}

func (f *fakeBootloader) Enter() {
	f.calls++
}
