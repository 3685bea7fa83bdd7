//go:build rp2350

package main

import "device/rp"

var tickTimer = rp.TIMER0

const tickIRQ = rp.IRQ_TIMER0_IRQ_1
