//go:build (rp2040 || rp2350) && !ws2812 && !ws2812pio

package main

import (
	"machine"

	"poppy/core"
)

// RPGPIODriver drives the indicator straight from a GPIO pin
type RPGPIODriver struct{}

func newIndicatorDriver() core.GPIODriver {
	return RPGPIODriver{}
}

func (RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.Pin(pin).Low()
	return nil
}

// SetPin is called from the tick interrupt
func (RPGPIODriver) SetPin(pin core.GPIOPin, value bool) {
	machine.Pin(pin).Set(value)
}
