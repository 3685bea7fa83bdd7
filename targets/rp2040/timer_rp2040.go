//go:build rp2040

package main

import "device/rp"

var tickTimer = rp.TIMER

const tickIRQ = rp.IRQ_TIMER_IRQ_1
