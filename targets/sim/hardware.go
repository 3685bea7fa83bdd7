//go:build !tinygo

package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"poppy/core"
)

// consolePin counts how many ticks the output spent high
type consolePin struct {
	high  uint32
	on    uint32
	total uint32
}

func (p *consolePin) ConfigureOutput(pin core.GPIOPin) error {
	atomic.StoreUint32(&p.high, 0)
	return nil
}

func (p *consolePin) SetPin(pin core.GPIOPin, value bool) {
	var v uint32
	if value {
		v = 1
	}
	atomic.StoreUint32(&p.high, v)
}

// account runs after every tick
func (p *consolePin) account() {
	atomic.AddUint32(&p.total, 1)
	atomic.AddUint32(&p.on, atomic.LoadUint32(&p.high))
}

// Sample returns and resets the counters
func (p *consolePin) Sample() (on, total uint32) {
	return atomic.SwapUint32(&p.on, 0), atomic.SwapUint32(&p.total, 0)
}

// tickerTimer stands in for the hardware alarm with a goroutine
type tickerTimer struct {
	masked  uint32
	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once

	after func() // Called after each tick, for accounting
}

func newTickerTimer() *tickerTimer {
	return &tickerTimer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (t *tickerTimer) Start(periodUS uint32, tick func()) error {
	if periodUS == 0 {
		return fmt.Errorf("tick period must be positive")
	}
	t.started = true
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(time.Duration(periodUS) * time.Microsecond)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				if atomic.LoadUint32(&t.masked) != 0 {
					continue
				}
				tick()
				if t.after != nil {
					t.after()
				}
			}
		}
	}()
	return nil
}

func (t *tickerTimer) MaskInterrupt() {
	atomic.StoreUint32(&t.masked, 1)
}

// StopClock returns once no tick is running
func (t *tickerTimer) StopClock() {
	t.once.Do(func() {
		close(t.stop)
		if t.started {
			<-t.done
		}
	})
}

type consoleUSB struct{}

func (consoleUSB) Detach() {
	fmt.Println("USB detached")
}

// exitJump ends the process in place of the bootloader
type exitJump struct{}

func (exitJump) TransferControl(entry uintptr) {
	core.DumpEventRing()
	if entry == 0 {
		fmt.Println("entering ROM bootloader")
	} else {
		fmt.Printf("jumping to bootloader at %#x\n", entry)
	}
	os.Exit(0)
}
