package ebpf

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestDecodeRoundTrip(t *testing.T) {
	program := []Instruction{
		&Mov64{Dest: BPF_REG_0, Value: 5},
		&Mov32Register{Dest: BPF_REG_2, Src: BPF_REG_1},
		&Add64Register{Dest: BPF_REG_2, Src: BPF_REG_3},
		&Sub32{Dest: BPF_REG_4, Value: -1},
		&ARSH64{Dest: BPF_REG_5, Value: 3},
		&Neg64{Dest: BPF_REG_6},
		&Neg32{Dest: BPF_REG_6},
		&EndToBE{Dest: BPF_REG_1, Bits: 16},
		&EndToLE{Dest: BPF_REG_1, Bits: 64},
		&LoadConstant64bit{Dest: BPF_REG_1, Val1: 0xdeadbeef, Val2: 0x1},
		&Nop{},
		&LoadMemory{Dest: BPF_REG_3, Src: BPF_REG_1, Offset: 8, Size: BPF_W},
		&LoadSocketBuf{Offset: 12, Size: BPF_H},
		&LoadSocketBufIndirect{Src: BPF_REG_2, Offset: 4, Size: BPF_B},
		&StoreMemoryConstant{Dest: BPF_REG_10, Offset: -8, Size: BPF_DW, Value: 42},
		&StoreMemoryRegister{Dest: BPF_REG_10, Src: BPF_REG_0, Offset: -16, Size: BPF_W},
		&AtomicAdd{Dest: BPF_REG_1, Src: BPF_REG_2, Offset: 0, Size: BPF_DW},
		&AtomicAdd{Dest: BPF_REG_1, Src: BPF_REG_2, Offset: 0, Size: BPF_W, Fetch: true},
		&AtomicExchange{Dest: BPF_REG_1, Src: BPF_REG_2, Offset: 8, Size: BPF_DW},
		&AtomicCompareExchange{Dest: BPF_REG_1, Src: BPF_REG_2, Offset: 8, Size: BPF_DW},
		&JumpEqual{Dest: BPF_REG_0, Value: 5, Offset: 1},
		&JumpSignedSmallerThan32Register{Dest: BPF_REG_1, Src: BPF_REG_2, Offset: -3},
		&Jump{Offset: 2},
		&CallHelper{Function: 1},
		&CallBPF{Offset: 4},
		&Exit{},
	}

	raw, err := Encode(program)
	qt.Assert(t, qt.IsNil(err))

	decoded, err := Decode(raw)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(decoded, program))
}

func TestDecodeWideLoadKeepsIndices(t *testing.T) {
	raw := MustEncode([]Instruction{
		&LoadConstant64bit{Dest: BPF_REG_1, Val1: 1, Val2: 2},
		&Exit{},
	})
	qt.Assert(t, qt.HasLen(raw, 3))

	decoded, err := Decode(raw)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(decoded, 3))

	_, isNop := decoded[1].(*Nop)
	qt.Assert(t, qt.IsTrue(isNop))
}

func TestDecodeTruncatedWideLoad(t *testing.T) {
	raw := MustEncode([]Instruction{
		&LoadConstant64bit{Dest: BPF_REG_1, Val1: 1, Val2: 2},
	})

	_, err := Decode(raw[:1])
	qt.Assert(t, qt.IsNotNil(err))
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := Decode([]RawInstruction{{Op: 0xff}})
	qt.Assert(t, qt.IsNotNil(err))
}
