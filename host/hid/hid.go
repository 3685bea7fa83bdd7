// Package hid exchanges poppy reports with the device's HID interface via libusb
package hid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"

	"poppy/protocol"
)

// Defaults for a TinyGo RP2040 build
const (
	DefaultVendorID    = 0x2E8A
	DefaultProductID   = 0x000A
	DefaultInterface   = 2
	DefaultOutEndpoint = 5
)

// HID class control requests
const (
	requestTypeClassIn = 0xA1 // Device-to-host, class, interface
	requestGetReport   = 0x01
	reportTypeInput    = 0x01
)

// ErrNotFound is returned when no device matches the configured IDs
var ErrNotFound = errors.New("indicator not found")

// Config selects the USB device and HID interface
type Config struct {
	VendorID    uint16
	ProductID   uint16
	Interface   int
	OutEndpoint int
}

// DefaultConfig returns the IDs of a stock TinyGo RP2040 build
func DefaultConfig() Config {
	return Config{
		VendorID:    DefaultVendorID,
		ProductID:   DefaultProductID,
		Interface:   DefaultInterface,
		OutEndpoint: DefaultOutEndpoint,
	}
}

func (c Config) validate() error {
	if c.VendorID == 0 || c.ProductID == 0 {
		return fmt.Errorf("vendor and product id are required")
	}
	if c.Interface < 0 || c.OutEndpoint <= 0 || c.OutEndpoint > 15 {
		return fmt.Errorf("invalid interface %d or endpoint %d", c.Interface, c.OutEndpoint)
	}
	return nil
}

// Device is an open HID interface. Reports go out on the interrupt OUT
// endpoint; status is read with a GET_REPORT control request so it is
// answered even when the device has nothing new to send.
type Device struct {
	cfg  Config
	usb  *gousb.Context
	dev  *gousb.Device
	conf *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
}

// Open claims the indicator's HID interface
func Open(cfg Config) (*Device, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	d := &Device{cfg: cfg, usb: gousb.NewContext()}
	if err := d.open(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) open() error {
	cfg := d.cfg
	var err error

	d.dev, err = d.usb.OpenDeviceWithVIDPID(gousb.ID(cfg.VendorID), gousb.ID(cfg.ProductID))
	if err != nil {
		return fmt.Errorf("could not open indicator: %w", err)
	}
	if d.dev == nil {
		return fmt.Errorf("%w: %04x:%04x", ErrNotFound, cfg.VendorID, cfg.ProductID)
	}

	// The kernel's hid driver owns the interface until detached
	if err := d.dev.SetAutoDetach(true); err != nil {
		return err
	}

	num, err := d.dev.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("active config: %w", err)
	}
	if d.conf, err = d.dev.Config(num); err != nil {
		return fmt.Errorf("config %d: %w", num, err)
	}
	if d.intf, err = d.conf.Interface(cfg.Interface, 0); err != nil {
		return fmt.Errorf("interface %d: %w", cfg.Interface, err)
	}
	if d.out, err = d.intf.OutEndpoint(cfg.OutEndpoint); err != nil {
		return fmt.Errorf("out endpoint %d: %w", cfg.OutEndpoint, err)
	}
	return nil
}

// WriteReport sends one report on the interrupt OUT endpoint
func (d *Device) WriteReport(ctx context.Context, r protocol.Report) error {
	n, err := d.out.WriteContext(ctx, r[:])
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if n != protocol.ReportSize {
		return fmt.Errorf("short write: %d of %d bytes", n, protocol.ReportSize)
	}
	return nil
}

// ReadReport fetches the input report with GET_REPORT
func (d *Device) ReadReport(ctx context.Context) (protocol.Report, error) {
	var r protocol.Report
	if err := ctx.Err(); err != nil {
		return r, err
	}
	n, err := d.dev.Control(
		requestTypeClassIn,
		requestGetReport,
		reportTypeInput<<8, // Report type in the high byte, id 0
		uint16(d.cfg.Interface),
		r[:],
	)
	if err != nil {
		return r, fmt.Errorf("get report: %w", err)
	}
	if n != protocol.ReportSize {
		return r, fmt.Errorf("short report: %d of %d bytes", n, protocol.ReportSize)
	}
	return r, nil
}

// Close releases the interface and the libusb context
func (d *Device) Close() error {
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	var errs []error
	if d.conf != nil {
		errs = append(errs, d.conf.Close())
		d.conf = nil
	}
	if d.dev != nil {
		errs = append(errs, d.dev.Close())
		d.dev = nil
	}
	if d.usb != nil {
		errs = append(errs, d.usb.Close())
		d.usb = nil
	}
	return errors.Join(errs...)
}
