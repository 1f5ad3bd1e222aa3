package kernelsupport

// TraceRegisterOffsets describes struct pt_regs on arm64. Function call arguments
// are passed in x0 through x7, which sit at the start of the regs array.
var TraceRegisterOffsets = TraceRegs{
	Args:  []int16{0, 8, 16, 24, 32, 40, 48, 56},
	Ret:   0,   // x0
	SP:    248, // sp, directly after regs[31]
	IP:    256, // pc
	Width: 8,
}
