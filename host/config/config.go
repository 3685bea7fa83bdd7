// Package config loads the poppy-ctl configuration file
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"poppy/host/hid"
	"poppy/host/serial"
)

// Transport names
const (
	TransportHID    = "hid"
	TransportSerial = "serial"
)

type Config struct {
	Transport string       `yaml:"transport"`
	HID       HIDConfig    `yaml:"hid"`
	Serial    SerialConfig `yaml:"serial"`
	Web       WebConfig    `yaml:"web"`
	Verbose   bool         `yaml:"verbose"`
}

// ---- HID ----

type HIDConfig struct {
	VendorID    uint16 `yaml:"vendor_id"`
	ProductID   uint16 `yaml:"product_id"`
	Interface   *int   `yaml:"interface"`
	OutEndpoint int    `yaml:"out_endpoint"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- WEB ----

type WebConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates the file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, fills defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Transport == "" {
		cfg.Transport = TransportHID
	}

	if cfg.HID.VendorID == 0 {
		cfg.HID.VendorID = hid.DefaultVendorID
	}
	if cfg.HID.ProductID == 0 {
		cfg.HID.ProductID = hid.DefaultProductID
	}
	if cfg.HID.Interface == nil {
		iface := hid.DefaultInterface
		cfg.HID.Interface = &iface
	}
	if cfg.HID.OutEndpoint == 0 {
		cfg.HID.OutEndpoint = hid.DefaultOutEndpoint
	}

	defaults := serial.DefaultConfig("/dev/ttyACM0")
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = defaults.Device
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = defaults.Baud
	}
	if cfg.Serial.ReadTimeoutMs == 0 {
		cfg.Serial.ReadTimeoutMs = defaults.ReadTimeout
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = "localhost:3737"
	}
}

// HIDDevice converts the HID section for hid.Open
func (c *Config) HIDDevice() hid.Config {
	iface := hid.DefaultInterface
	if c.HID.Interface != nil {
		iface = *c.HID.Interface
	}
	return hid.Config{
		VendorID:    c.HID.VendorID,
		ProductID:   c.HID.ProductID,
		Interface:   iface,
		OutEndpoint: c.HID.OutEndpoint,
	}
}

// SerialPort converts the serial section for serial.Dial
func (c *Config) SerialPort() *serial.Config {
	return &serial.Config{
		Device:      c.Serial.Device,
		Baud:        c.Serial.Baud,
		ReadTimeout: c.Serial.ReadTimeoutMs,
	}
}
