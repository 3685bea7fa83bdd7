//go:build (rp2040 || rp2350) && ws2812

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"poppy/core"
)

// ws2812Color is the color shown while the PWM output is high
var ws2812Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// WS2812Driver turns the PWM output into on/off frames for a single
// addressable LED. Boards such as the RP2040-Zero have no plain LED.
// A frame takes about 30us on the wire, so pair this driver with a longer
// tick period.
type WS2812Driver struct {
	dev   ws2812.Device
	on    bool
	ready bool
	black []color.RGBA
	lit   []color.RGBA
}

func newIndicatorDriver() core.GPIODriver {
	return &WS2812Driver{
		black: []color.RGBA{{}},
		lit:   []color.RGBA{ws2812Color},
	}
}

func (d *WS2812Driver) ConfigureOutput(pin core.GPIOPin) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.dev = ws2812.New(p)
	d.ready = true
	d.on = false
	return d.dev.WriteColors(d.black)
}

// SetPin only writes a frame when the output changes
func (d *WS2812Driver) SetPin(pin core.GPIOPin, value bool) {
	if !d.ready || value == d.on {
		return
	}
	d.on = value
	if value {
		d.dev.WriteColors(d.lit)
	} else {
		d.dev.WriteColors(d.black)
	}
}
