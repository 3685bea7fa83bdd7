//go:build rp2040 || rp2350

package main

import (
	"device/arm"
	"machine"
	"runtime/volatile"
	"unsafe"
)

// Cortex-M vector table offset register
const scbVTOR = 0xE000ED08

var vtor = (*volatile.Register32)(unsafe.Pointer(uintptr(scbVTOR)))

// romJump hands the CPU to the bootloader. Entry 0 selects the mask ROM's
// USB boot mode; any other entry is treated as the address of a vector
// table.
type romJump struct{}

func (romJump) TransferControl(entry uintptr) {
	if entry == 0 {
		machine.EnterBootloader()
		for {
		}
	}

	sp := *(*uint32)(unsafe.Pointer(entry))
	pc := *(*uint32)(unsafe.Pointer(entry + 4))

	vtor.Set(uint32(entry))
	arm.AsmFull(`
		msr msp, {sp}
		bx {pc}
	`, map[string]interface{}{
		"sp": sp,
		"pc": pc,
	})
	for {
	}
}
