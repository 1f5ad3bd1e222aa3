package kernelsupport

// TraceRegisterOffsets describes struct pt_regs on riscv64. Function call arguments
// are passed in a0 through a7.
var TraceRegisterOffsets = TraceRegs{
	Args:  []int16{80, 88, 96, 104, 112, 120, 128, 136},
	Ret:   80, // a0
	SP:    16, // sp
	IP:    0,  // epc
	Width: 8,
}
