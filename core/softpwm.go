// Software PWM for the indicator output
// Renders a brightness level as an on/off pin pattern over MaxSteps ticks
package core

import "errors"

// BoundaryPolicy selects how the pin is driven at the cycle boundary
type BoundaryPolicy uint8

const (
	// BoundaryExact drives the pin ON at the boundary only for a non-zero
	// level and forces it OFF once the tick counter reaches the level.
	// The pin is ON for exactly level ticks out of MaxSteps.
	BoundaryExact BoundaryPolicy = iota

	// BoundaryLegacy reproduces the original firmware: the pin is always
	// set ON at the boundary and forced OFF once the counter exceeds the
	// level, giving level+1 ON ticks and a boundary pulse at level 0.
	BoundaryLegacy
)

var errUnknownPolicy = errors.New("unknown boundary policy")

// String returns the config name of the policy
func (p BoundaryPolicy) String() string {
	switch p {
	case BoundaryExact:
		return "exact"
	case BoundaryLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p BoundaryPolicy) MarshalText() ([]byte, error) {
	if p > BoundaryLegacy {
		return nil, errUnknownPolicy
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *BoundaryPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "exact":
		*p = BoundaryExact
	case "legacy":
		*p = BoundaryLegacy
	default:
		return errUnknownPolicy
	}
	return nil
}

// SoftPWM is the duty-cycle engine. Tick runs in interrupt context: it reads
// the shared level once, does O(1) work and never blocks.
type SoftPWM struct {
	gpio   GPIODriver
	pin    GPIOPin
	level  *Level
	policy BoundaryPolicy

	// counter is owned by the tick context
	counter uint8
}

// NewSoftPWM creates a PWM engine driving pin from level
func NewSoftPWM(gpio GPIODriver, pin GPIOPin, level *Level, policy BoundaryPolicy) *SoftPWM {
	return &SoftPWM{
		gpio:   gpio,
		pin:    pin,
		level:  level,
		policy: policy,
	}
}

// Policy returns the boundary policy in use
func (p *SoftPWM) Policy() BoundaryPolicy {
	return p.policy
}

// Reset rewinds the cycle and drives the pin low.
// Only call while the tick timer is stopped.
func (p *SoftPWM) Reset() {
	p.counter = 0
	p.gpio.SetPin(p.pin, false)
}

// Tick advances the PWM by one timer period
func (p *SoftPWM) Tick() {
	level := p.level.Load()

	p.counter++
	if p.counter == MaxSteps {
		p.counter = 0
		p.gpio.SetPin(p.pin, level > 0)
		if p.policy == BoundaryLegacy {
			p.gpio.SetPin(p.pin, true)
		}
		return
	}

	threshold := level
	if p.policy == BoundaryLegacy {
		threshold++
	}
	if p.counter >= threshold {
		p.gpio.SetPin(p.pin, false)
	}
}
