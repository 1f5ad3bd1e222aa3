package ebpf

import "fmt"

var _ Instruction = (*CallHelper)(nil)

// CallHelper calls the kernel helper function with the given id. Arguments
// are passed in r1-r5, the return value arrives in r0.
type CallHelper struct {
	Function int32
}

func (c *CallHelper) Raw() ([]RawInstruction, error) {
	return []RawInstruction{
		{Op: BPF_JMP | BPF_CALL, Imm: c.Function},
	}, nil
}

func (c *CallHelper) String() string {
	return fmt.Sprintf("call %d", c.Function)
}

var _ Instruction = (*CallBPF)(nil)
var _ Targeter = (*CallBPF)(nil)

// CallBPF calls another bpf function within the same program at the given
// instruction Offset, relative to the next instruction. The Label, if set,
// is resolved into Offset by Assemble.
type CallBPF struct {
	Label  string
	Offset int32
}

func (c *CallBPF) Raw() ([]RawInstruction, error) {
	return []RawInstruction{
		{Op: BPF_JMP | BPF_CALL, Reg: NewReg(PSEUDO_CALL, 0), Imm: c.Offset},
	}, nil
}

func (c *CallBPF) SetJumpTarget(relAddr int16) {
	c.Offset = int32(relAddr)
}

func (c *CallBPF) Target() string {
	return c.Label
}

func (c *CallBPF) String() string {
	if c.Label != "" {
		return "call <" + c.Label + ">"
	}
	return fmt.Sprintf("call %+d", c.Offset)
}
