package kernelsupport

// TraceRegisterOffsets describes struct pt_regs on x86. The kernel is built with
// regparm(3), the first three arguments go in eax, edx and ecx.
var TraceRegisterOffsets = TraceRegs{
	Args:  []int16{24, 8, 4},
	Ret:   24, // eax
	SP:    60, // esp
	IP:    48, // eip
	Width: 4,
}
