package core

// CPUInterrupts is the InterruptController of the running CPU
type CPUInterrupts struct{}

// DisableAll masks every interrupt
func (CPUInterrupts) DisableAll() {
	disableInterrupts()
}
