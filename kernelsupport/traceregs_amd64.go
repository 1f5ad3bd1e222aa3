package kernelsupport

// TraceRegisterOffsets describes struct pt_regs on x86_64. Kernel functions pass
// their first six arguments in rdi, rsi, rdx, rcx, r8 and r9.
var TraceRegisterOffsets = TraceRegs{
	Args:  []int16{112, 104, 96, 88, 72, 64},
	Ret:   80,  // rax
	SP:    152, // rsp
	IP:    128, // rip
	Width: 8,
}
