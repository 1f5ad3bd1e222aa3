package kernelsupport

// TraceRegisterOffsets describes struct pt_regs on s390x. The gprs array starts at
// offset 24, after the args word and the 16 byte psw, arguments go in gprs 2 to 6.
var TraceRegisterOffsets = TraceRegs{
	Args:  []int16{40, 48, 56, 64, 72},
	Ret:   40,  // gprs[2]
	SP:    144, // gprs[15]
	IP:    16,  // psw.addr
	Width: 8,
}
