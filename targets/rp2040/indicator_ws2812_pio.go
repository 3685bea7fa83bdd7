//go:build rp2040 && ws2812pio && !ws2812

package main

import (
	"machine"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"poppy/core"
)

// WS2812 bit rate
const ws2812Baud = 800_000

// PIOWS2812Driver feeds a single addressable LED from a PIO state machine.
// Writing a pixel is one FIFO push, so it is cheap enough for the tick.
type PIOWS2812Driver struct {
	dev *piolib.WS2812
	on  bool
}

func newIndicatorDriver() core.GPIODriver {
	return &PIOWS2812Driver{}
}

func (d *PIOWS2812Driver) ConfigureOutput(pin core.GPIOPin) error {
	dev, err := piolib.NewWS2812(pio.PIO0.StateMachine(0), machine.Pin(pin), ws2812Baud)
	if err != nil {
		return err
	}
	d.dev = dev
	d.on = false
	d.dev.SetRGB(0, 0, 0)
	return nil
}

func (d *PIOWS2812Driver) SetPin(pin core.GPIOPin, value bool) {
	if d.dev == nil || value == d.on {
		return
	}
	d.on = value
	if value {
		d.dev.SetRGB(255, 255, 255)
	} else {
		d.dev.SetRGB(0, 0, 0)
	}
}
