package core

import (
	"encoding/json"
)

// DefaultTickPeriodUS is one PWM tick; a full cycle takes MaxSteps ticks
const DefaultTickPeriodUS = 50

// Config holds the board-level settings of the indicator
type Config struct {
	// LEDPin is the indicator output
	LEDPin GPIOPin `json:"led_pin"`

	// TickPeriodUS is the timer interrupt period in microseconds
	TickPeriodUS uint32 `json:"tick_period_us"`

	// BootloaderEntry is the address handed to ControlTransfer.
	// Zero selects the platform's default bootloader.
	BootloaderEntry uintptr `json:"bootloader_entry"`

	// Boundary selects the PWM cycle-boundary behavior
	Boundary BoundaryPolicy `json:"boundary"`
}

// DefaultConfig returns a configuration with all defaults applied
func DefaultConfig() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// LoadConfig parses a JSON configuration and fills in missing values
func LoadConfig(jsonData []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(cfg *Config) {
	if cfg.TickPeriodUS == 0 {
		cfg.TickPeriodUS = DefaultTickPeriodUS
	}
}
