package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It does not mutate the configuration.
func Validate(cfg *Config) error {
	switch cfg.Transport {
	case TransportHID:
		if cfg.HID.VendorID == 0 || cfg.HID.ProductID == 0 {
			return fmt.Errorf("hid: vendor_id and product_id must be non-zero")
		}
		if cfg.HID.Interface != nil && *cfg.HID.Interface < 0 {
			return fmt.Errorf("hid: interface must not be negative, got %d", *cfg.HID.Interface)
		}
		if cfg.HID.OutEndpoint < 1 || cfg.HID.OutEndpoint > 15 {
			return fmt.Errorf("hid: out_endpoint must be 1..15, got %d", cfg.HID.OutEndpoint)
		}
	case TransportSerial:
		if cfg.Serial.Device == "" {
			return fmt.Errorf("serial: device is required")
		}
		if cfg.Serial.Baud <= 0 {
			return fmt.Errorf("serial: baud must be positive, got %d", cfg.Serial.Baud)
		}
		if cfg.Serial.ReadTimeoutMs < 0 {
			return fmt.Errorf("serial: read_timeout_ms must not be negative, got %d", cfg.Serial.ReadTimeoutMs)
		}
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportHID, TransportSerial, cfg.Transport)
	}

	if cfg.Web.Listen == "" {
		return fmt.Errorf("web: listen address is required")
	}
	return nil
}
