package kernelsupport

// TraceRegisterOffsets describes struct pt_regs on 32-bit ARM. Function call
// arguments are passed in r0 through r3.
var TraceRegisterOffsets = TraceRegs{
	Args:  []int16{0, 4, 8, 12},
	Ret:   0,  // r0
	SP:    52, // r13
	IP:    60, // r15
	Width: 4,
}
