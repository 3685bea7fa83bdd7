package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"poppy/host/hid"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Transport != TransportHID {
		t.Errorf("Transport = %q, want %q", cfg.Transport, TransportHID)
	}
	if got := cfg.HIDDevice(); got != hid.DefaultConfig() {
		t.Errorf("HIDDevice() = %+v, want %+v", got, hid.DefaultConfig())
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
transport: serial
serial:
  device: /dev/ttyACM3
  read_timeout_ms: 250
hid:
  interface: 0
web:
  listen: ":8080"
verbose: true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Transport != TransportSerial || !cfg.Verbose {
		t.Errorf("transport=%q verbose=%v", cfg.Transport, cfg.Verbose)
	}
	sp := cfg.SerialPort()
	if sp.Device != "/dev/ttyACM3" || sp.Baud != 115200 || sp.ReadTimeout != 250 {
		t.Errorf("unexpected serial config %+v", sp)
	}
	if cfg.HIDDevice().Interface != 0 {
		t.Errorf("explicit interface 0 should be kept, got %d", cfg.HIDDevice().Interface)
	}
	if cfg.Web.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Web.Listen)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "transport: [", "parse config"},
		{"bad transport", "transport: bluetooth", "transport must be"},
		{"bad endpoint", "hid:\n  out_endpoint: 16", "out_endpoint"},
		{"negative interface", "hid:\n  interface: -1", "interface"},
		{"bad baud", "transport: serial\nserial:\n  baud: -5", "baud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poppy.yaml")
	if err := os.WriteFile(path, []byte("hid:\n  vendor_id: 0x1209\n  product_id: 0x0001\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HID.VendorID != 0x1209 || cfg.HID.ProductID != 0x0001 {
		t.Errorf("ids = %04x:%04x", cfg.HID.VendorID, cfg.HID.ProductID)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
