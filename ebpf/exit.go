package ebpf

var _ Instruction = (*Exit)(nil)

// Exit returns from the current function. In the program's entry function it
// ends execution with the value of r0 as verdict.
type Exit struct{}

func (e *Exit) Raw() ([]RawInstruction, error) {
	return []RawInstruction{
		{Op: BPF_JMP | BPF_EXIT},
	}, nil
}

func (e *Exit) String() string {
	return "exit"
}
