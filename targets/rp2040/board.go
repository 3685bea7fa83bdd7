//go:build rp2040 || rp2350

package main

import (
	"machine"

	"poppy/core"
)

// boardConfig returns the indicator settings for this board.
// Edit here or override with -ldflags through boardConfigJSON.
func boardConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.LEDPin = core.GPIOPin(machine.LED)

	if boardConfigJSON != "" {
		loaded, err := core.LoadConfig([]byte(boardConfigJSON))
		if err == nil {
			return loaded
		}
		core.DebugPrintln("[BOARD] bad config, using defaults: " + err.Error())
	}
	return cfg
}

// boardConfigJSON may be set at link time:
//
//	tinygo flash -target pico -ldflags '-X main.boardConfigJSON={"led_pin":15}'
var boardConfigJSON string
