package core

import "sync/atomic"

// Hardware bundles the platform collaborators of a Device
type Hardware struct {
	GPIO       GPIODriver
	Timer      TickTimer
	USB        Endpoint
	Interrupts InterruptController
	Jump       ControlTransfer
}

func (hw Hardware) validate() error {
	if hw.GPIO == nil || hw.Timer == nil || hw.USB == nil || hw.Interrupts == nil || hw.Jump == nil {
		return ErrNoHardware
	}
	return nil
}

// Device is the single firmware context: shared level, PWM engine, report
// adapter and bootloader handoff. Construct one with NewDevice, then Init.
type Device struct {
	cfg Config
	hw  Hardware

	level   Level
	pwm     *SoftPWM
	reports *ReportChannel
	handoff *Handoff
	gate    InReportGate

	initialized bool
	connected   uint32 // atomic bool
}

// NewDevice wires a device from cfg and hw. Nothing touches the hardware
// until Init.
func NewDevice(cfg Config, hw Hardware) (*Device, error) {
	if err := hw.validate(); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	d := &Device{cfg: cfg, hw: hw}
	d.pwm = NewSoftPWM(hw.GPIO, cfg.LEDPin, &d.level, cfg.Boundary)
	d.handoff = NewHandoff(hw.Timer, hw.USB, hw.Interrupts, hw.Jump, cfg.BootloaderEntry)
	d.reports = NewReportChannel(&d.level, d.handoff)
	return d, nil
}

// Init configures the indicator pin low and starts the tick timer
func (d *Device) Init() error {
	if d.initialized {
		return ErrAlreadyInitialized
	}
	if err := d.hw.GPIO.ConfigureOutput(d.cfg.LEDPin); err != nil {
		return err
	}
	d.pwm.Reset()
	if err := d.hw.Timer.Start(d.cfg.TickPeriodUS, d.pwm.Tick); err != nil {
		return err
	}
	d.initialized = true
	DebugPrintln("[DEVICE] initialized, tick=" + utoa(d.cfg.TickPeriodUS) + "us boundary=" + d.cfg.Boundary.String())
	return nil
}

// Config returns the effective configuration
func (d *Device) Config() Config {
	return d.cfg
}

// Tick advances the PWM engine; the timer calls this from interrupt context
func (d *Device) Tick() {
	d.pwm.Tick()
}

// Level returns the current brightness level
func (d *Device) Level() uint8 {
	return d.level.Load()
}

// HandoffState returns the bootloader handoff state
func (d *Device) HandoffState() HandoffState {
	return d.handoff.State()
}

// ProcessReport handles a host-to-device report
func (d *Device) ProcessReport(data []byte) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.reports.ProcessReport(data)
}

// CreateReport fills buf with the device-to-host report
func (d *Device) CreateReport(buf []byte) (size int, force bool) {
	return d.reports.CreateReport(buf)
}

// PollReport builds the IN report and reports whether it should be sent now.
// Returns size 0 if buf is too small.
func (d *Device) PollReport(buf []byte) (size int, send bool) {
	size, force := d.reports.CreateReport(buf)
	if size == 0 {
		return 0, false
	}
	return size, d.gate.ShouldSend(buf[:size], force)
}

// SetIdle applies the host's SET_IDLE rate for IN reports
func (d *Device) SetIdle(rate uint8) {
	d.gate.SetIdle(rate)
}

// IdleRate returns the current IN report idle rate
func (d *Device) IdleRate() uint8 {
	return d.gate.IdleRate()
}

// ElapseMS advances the IN report idle clock
func (d *Device) ElapseMS(ms uint32) {
	d.gate.Elapse(ms)
}

// OnConnect handles the transport's connect event
func (d *Device) OnConnect() {
	atomic.StoreUint32(&d.connected, 1)
	RecordEvent(EvtUSBConnect, 0)
}

// OnDisconnect handles the transport's disconnect event
func (d *Device) OnDisconnect() {
	atomic.StoreUint32(&d.connected, 0)
	RecordEvent(EvtUSBDisconnect, 0)
}

// OnConfigurationChanged handles a host SET_CONFIGURATION. The next IN poll
// is sent regardless of change detection.
func (d *Device) OnConfigurationChanged() {
	d.gate.Forget()
	RecordEvent(EvtUSBConfigured, 0)
}

// Connected reports whether the host is connected
func (d *Device) Connected() bool {
	return atomic.LoadUint32(&d.connected) != 0
}
