package ebpf

import (
	"errors"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestRawInstructionMarshal(t *testing.T) {
	raw := RawInstruction{
		Op:  BPF_ALU64 | BPF_K | BPF_MOV,
		Reg: NewReg(0, BPF_REG_2),
		Off: -2,
		Imm: 0x01020304,
	}

	bytes, err := raw.MarshalBinary()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(bytes, []byte{
		0xb7,       // op
		0x02,       // dst r2, src r0
		0xfe, 0xff, // off -2
		0x04, 0x03, 0x02, 0x01, // imm
	}))

	var back RawInstruction
	qt.Assert(t, qt.IsNil(back.UnmarshalBinary(bytes)))
	qt.Assert(t, qt.Equals(back, raw))
}

func TestUnmarshalInstructionsBadLength(t *testing.T) {
	_, err := UnmarshalInstructions(make([]byte, 12))
	qt.Assert(t, qt.IsNotNil(err))
}

func TestMarshalInstructionsRoundTrip(t *testing.T) {
	raw := MustEncode([]Instruction{
		&Mov64{Dest: BPF_REG_0, Value: 5},
		&LoadConstant64bit{Dest: BPF_REG_1, Val1: 0xdeadbeef, Val2: 0x1},
		&Exit{},
	})
	qt.Assert(t, qt.HasLen(raw, 4))

	back, err := UnmarshalInstructions(MarshalInstructions(raw))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(back, raw))
}

func TestNewReg(t *testing.T) {
	raw := RawInstruction{Reg: NewReg(BPF_REG_3, BPF_REG_7)}
	qt.Assert(t, qt.Equals(raw.GetSourceReg(), BPF_REG_3))
	qt.Assert(t, qt.Equals(raw.GetDestReg(), BPF_REG_7))
}

func TestRegisterValidation(t *testing.T) {
	_, err := (&Add64{Dest: Register(12), Value: 1}).Raw()
	qt.Assert(t, qt.IsNotNil(err))

	var encErr *EncodingError
	qt.Assert(t, qt.IsTrue(errors.As(err, &encErr)))

	_, err = (&Mov64Register{Dest: BPF_REG_1, Src: Register(11)}).Raw()
	qt.Assert(t, qt.IsNotNil(err))
}

func TestWideLoadEncoding(t *testing.T) {
	raw, err := (&LoadConstant64bit{Dest: BPF_REG_1, Val1: 0x04030201, Val2: 0x08070605}).Raw()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(raw, 2))

	qt.Assert(t, qt.Equals(raw[0].Op, BPF_LD|uint8(BPF_DW)|BPF_IMM))
	qt.Assert(t, qt.Equals(raw[0].Imm, int32(0x04030201)))
	qt.Assert(t, qt.Equals(raw[1].Op, uint8(0)))
	qt.Assert(t, qt.Equals(raw[1].Imm, int32(0x08070605)))
}

func TestAtomicSizeValidation(t *testing.T) {
	_, err := (&AtomicAdd{Dest: BPF_REG_1, Src: BPF_REG_2, Size: BPF_H}).Raw()
	qt.Assert(t, qt.IsNotNil(err))

	_, err = (&AtomicAdd{Dest: BPF_REG_1, Src: BPF_REG_2, Size: BPF_DW}).Raw()
	qt.Assert(t, qt.IsNil(err))
}
