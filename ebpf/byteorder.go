package ebpf

import "fmt"

func rawEnd(inst Instruction, direction uint8, dst Register, bits int32) ([]RawInstruction, error) {
	if err := checkRegs(inst, dst); err != nil {
		return nil, err
	}
	if bits != 16 && bits != 32 && bits != 64 {
		return nil, &EncodingError{
			Inst: inst.String(),
			Err:  fmt.Errorf("endianness conversion only supports 16, 32 or 64 bits"),
		}
	}

	return []RawInstruction{
		{Op: BPF_ALU | direction | BPF_END, Reg: NewReg(0, dst), Imm: bits},
	}, nil
}

var _ Instruction = (*EndToLE)(nil)

// EndToLE interprets the lowest Bits bits of Dest as big-endian and converts
// them to little-endian. On a little-endian host this swaps bytes, otherwise
// it truncates to Bits bits.
type EndToLE struct {
	Dest Register
	Bits int32
}

func (e *EndToLE) Raw() ([]RawInstruction, error) {
	return rawEnd(e, BPF_TO_LE, e.Dest, e.Bits)
}

func (e *EndToLE) String() string {
	return fmt.Sprintf("%s = le%d %s", e.Dest, e.Bits, e.Dest)
}

var _ Instruction = (*EndToBE)(nil)

// EndToBE interprets the lowest Bits bits of Dest as little-endian and
// converts them to big-endian.
type EndToBE struct {
	Dest Register
	Bits int32
}

func (e *EndToBE) Raw() ([]RawInstruction, error) {
	return rawEnd(e, BPF_TO_BE, e.Dest, e.Bits)
}

func (e *EndToBE) String() string {
	return fmt.Sprintf("%s = be%d %s", e.Dest, e.Bits, e.Dest)
}
