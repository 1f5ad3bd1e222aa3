package kernelsupport

// TraceRegs describes where the trace context (the kernel's struct pt_regs) stores
// function call arguments, the return value, the stack pointer and the instruction
// pointer on the architecture this binary is compiled for. Offsets are in bytes from
// the start of the context that tracing programs receive as their first argument.
type TraceRegs struct {
	// Args holds the offset of every register used to pass function call arguments,
	// in calling convention order. Arguments beyond len(Args) are passed on the
	// stack and can't be read at a fixed offset.
	Args []int16
	// Ret is the offset of the register holding the function return value.
	Ret int16
	// SP is the offset of the stack pointer.
	SP int16
	// IP is the offset of the instruction pointer.
	IP int16
	// Width is the size of a single register in bytes.
	Width int
}
