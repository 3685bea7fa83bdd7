//go:build rp2040 || rp2350

package main

import (
	"device/arm"
	"device/rp"
	"machine"
	"machine/usb"
	"machine/usb/descriptor"
	"sync/atomic"
	"time"

	"poppy/core"
	"poppy/protocol"
)

// HID class requests
const (
	hidGetReport = 0x01
	hidSetIdle   = 0x0A
)

// hidReportDescriptor declares one vendor-defined 8-byte report in each
// direction without report IDs
var hidReportDescriptor = []byte{
	0x06, 0x00, 0xFF, // Usage Page (Vendor Defined 0xFF00)
	0x09, 0x01, //       Usage (0x01)
	0xA1, 0x01, //       Collection (Application)
	0x15, 0x00, //         Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //         Report Size (8)
	0x95, protocol.ReportSize, // Report Count
	0x09, 0x02, //         Usage (0x02)
	0x81, 0x02, //         Input (Data, Var, Abs)
	0x95, protocol.ReportSize, // Report Count
	0x09, 0x03, //         Usage (0x03)
	0x91, 0x02, //         Output (Data, Var, Abs)
	0xC0, //             End Collection
}

// usbDescriptor keeps the CDC serial interfaces and adds the HID interface
var usbDescriptor = descriptor.Descriptor{
	Device: descriptor.DeviceCDC.Bytes(),
	Configuration: descriptor.Append([][]byte{
		descriptor.ConfigurationCDCHID.Bytes(),
		descriptor.InterfaceAssociationCDC.Bytes(),
		descriptor.InterfaceCDCControl.Bytes(),
		descriptor.ClassSpecificCDCHeader.Bytes(),
		descriptor.ClassSpecificCDCACM.Bytes(),
		descriptor.ClassSpecificCDCUnion.Bytes(),
		descriptor.ClassSpecificCDCCallManagement.Bytes(),
		descriptor.EndpointEP1IN.Bytes(),
		descriptor.InterfaceCDCData.Bytes(),
		descriptor.EndpointEP2OUT.Bytes(),
		descriptor.EndpointEP3IN.Bytes(),
		descriptor.InterfaceHID.Bytes(),
		func() []byte {
			classHID := descriptor.ClassHID.Bytes()
			classHID[7] = byte(len(hidReportDescriptor))
			classHID[8] = byte(len(hidReportDescriptor) >> 8)
			return classHID
		}(),
		descriptor.EndpointEP4IN.Bytes(),
		descriptor.EndpointEP5OUT.Bytes(),
	}),
	HID: map[uint16][]byte{
		usb.HID_INTERFACE: hidReportDescriptor,
	},
}

var (
	// OUT report mailbox, filled by the USB interrupt and drained by the
	// main loop. A report arriving while one is pending is dropped.
	pendingReport [protocol.ReportSize]byte
	pendingLen    int
	reportPending uint32
	reportsLost   uint32

	// SET_IDLE rate with bit 8 set while not yet applied
	pendingIdle uint32

	inBuf     [protocol.ReportSize]byte
	ctrlBuf   [protocol.ReportSize]byte
	inBusy    uint32
	connected bool

	consecutiveSendFailures uint32
)

// InitUSB registers the HID endpoints next to the built-in CDC serial port
func InitUSB() {
	machine.ConfigureUSBEndpoint(usbDescriptor,
		[]usb.EndpointConfig{
			{
				Index:     usb.HID_ENDPOINT_OUT,
				IsIn:      false,
				Type:      usb.ENDPOINT_TYPE_INTERRUPT,
				RxHandler: hidRx,
			},
			{
				Index:     usb.HID_ENDPOINT_IN,
				IsIn:      true,
				Type:      usb.ENDPOINT_TYPE_INTERRUPT,
				TxHandler: hidTxDone,
			},
		},
		[]usb.SetupConfig{
			{
				Index:   usb.HID_INTERFACE,
				Handler: hidSetup,
			},
		})

	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// hidRx runs in the USB interrupt
func hidRx(b []byte) {
	if atomic.LoadUint32(&reportPending) != 0 {
		reportsLost++
		return
	}
	pendingLen = copy(pendingReport[:], b)
	atomic.StoreUint32(&reportPending, 1)
}

func hidTxDone() {
	atomic.StoreUint32(&inBusy, 0)
}

// hidSetup answers the HID class requests on the control endpoint
func hidSetup(setup usb.Setup) bool {
	switch setup.BmRequestType {
	case usb.REQUEST_DEVICETOHOST_CLASS_INTERFACE:
		if setup.BRequest == hidGetReport {
			n, _ := device.CreateReport(ctrlBuf[:])
			machine.SendUSBInPacket(0, ctrlBuf[:n])
			return true
		}
	case usb.REQUEST_HOSTTODEVICE_CLASS_INTERFACE:
		if setup.BRequest == hidSetIdle {
			atomic.StoreUint32(&pendingIdle, 0x100|uint32(setup.WValueH))
			machine.SendZlp()
			return true
		}
	}
	return false
}

// serviceUSB applies what the USB interrupt queued. Main loop only.
func serviceUSB() {
	if idle := atomic.SwapUint32(&pendingIdle, 0); idle != 0 {
		device.SetIdle(uint8(idle))
	}

	if atomic.LoadUint32(&reportPending) == 0 {
		return
	}
	var report [protocol.ReportSize]byte
	n := copy(report[:], pendingReport[:pendingLen])
	atomic.StoreUint32(&reportPending, 0)

	markConnected()
	reportsReceived++
	if err := device.ProcessReport(report[:n]); err != nil {
		reportErrors++
		core.DebugPrintln("[USB] report: " + err.Error())
	}
}

// sendInReport offers the IN report to the host if the gate allows it
func sendInReport() {
	if atomic.LoadUint32(&inBusy) != 0 {
		return
	}
	n, send := device.PollReport(inBuf[:])
	if !send {
		return
	}

	atomic.StoreUint32(&inBusy, 1)
	if !machine.SendUSBInPacket(usb.HID_ENDPOINT_IN, inBuf[:n]) {
		atomic.StoreUint32(&inBusy, 0)
		consecutiveSendFailures++
		// After several failures, treat the host as gone and resend on return
		if consecutiveSendFailures > 10 && connected {
			connected = false
			consecutiveSendFailures = 0
			device.OnDisconnect()
			device.OnConfigurationChanged()
		}
		return
	}
	consecutiveSendFailures = 0
	markConnected()
}

func markConnected() {
	if !connected {
		connected = true
		device.OnConnect()
	}
}

// usbPort detaches the device from the bus for the bootloader handoff
type usbPort struct{}

func (usbPort) Detach() {
	rp.USBCTRL_REGS.SIE_CTRL.ClearBits(rp.USBCTRL_REGS_SIE_CTRL_PULLUP_EN)

	// Let the host see the disconnect before the controller goes away
	time.Sleep(10 * time.Millisecond)

	arm.DisableIRQ(rp.IRQ_USBCTRL_IRQ)
	rp.USBCTRL_REGS.MAIN_CTRL.Set(0)
}
