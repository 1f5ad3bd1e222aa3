package ebpf

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestAssemblyToInstructions(t *testing.T) {
	const text = `
# count to ten
	r1 = 0
loop:
	r1 += 1
	if r1 < 10 goto <loop>
	w2 = w1
	r3 = *(u32 *)(r1 + 8)
	*(u64 *)(r10 - 8) = r3
	r4 = 1000000 ll
	r5 = be16 r5
	call 2
	r0 = 0
	exit
`

	program, err := AssemblyToInstructions("count.s", strings.NewReader(text))
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.DeepEquals(program, []Instruction{
		&Mov64{Dest: BPF_REG_1, Value: 0},
		&Label{Name: "loop"},
		&Add64{Dest: BPF_REG_1, Value: 1},
		&JumpSmallerThan{Dest: BPF_REG_1, Value: 10, Label: "loop"},
		&Mov32Register{Dest: BPF_REG_2, Src: BPF_REG_1},
		&LoadMemory{Dest: BPF_REG_3, Src: BPF_REG_1, Offset: 8, Size: BPF_W},
		&StoreMemoryRegister{Dest: BPF_REG_10, Src: BPF_REG_3, Offset: -8, Size: BPF_DW},
		&LoadConstant64bit{Dest: BPF_REG_4, Val1: 1000000, Val2: 0},
		&EndToBE{Dest: BPF_REG_5, Bits: 16},
		&CallHelper{Function: 2},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Exit{},
	}))

	// The parsed program assembles like a hand built one, the backward
	// branch resolves over the label.
	raw, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(raw[2].Off, int16(-2)))
}

func TestAssemblyNumericJump(t *testing.T) {
	program, err := AssemblyToInstructions("inline.s", strings.NewReader(
		"if r0 == 5 goto +1\nr0 = 0\nexit\n"))
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.DeepEquals(program, []Instruction{
		&JumpEqual{Dest: BPF_REG_0, Value: 5, Offset: 1},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Exit{},
	}))
}

func TestAssemblyAtomics(t *testing.T) {
	program, err := AssemblyToInstructions("atomic.s", strings.NewReader(`
	lock *(u64 *)(r1 + 0) += r2
	r2 = atomic_fetch_add((u64 *)(r1 + 0), r2)
	r2 = xchg((u64 *)(r1 + 0), r2)
	r0 = cmpxchg((u64 *)(r1 + 0), r0, r2)
`))
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.DeepEquals(program, []Instruction{
		&AtomicAdd{Dest: BPF_REG_1, Src: BPF_REG_2, Size: BPF_DW},
		&AtomicAdd{Dest: BPF_REG_1, Src: BPF_REG_2, Size: BPF_DW, Fetch: true},
		&AtomicExchange{Dest: BPF_REG_1, Src: BPF_REG_2, Size: BPF_DW},
		&AtomicCompareExchange{Dest: BPF_REG_1, Src: BPF_REG_2, Size: BPF_DW},
	}))
}

func TestAssemblyNegativeImmediate(t *testing.T) {
	program, err := AssemblyToInstructions("neg.s", strings.NewReader("r1 = -5\nr1 = -r1\nexit\n"))
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.DeepEquals(program, []Instruction{
		&Mov64{Dest: BPF_REG_1, Value: -5},
		&Neg64{Dest: BPF_REG_1},
		&Exit{},
	}))
}

func TestAssemblyParseError(t *testing.T) {
	_, err := AssemblyToInstructions("bad.s", strings.NewReader("r1 ?! 5\n"))
	qt.Assert(t, qt.IsNotNil(err))
}

func TestAssemblyEndianMismatch(t *testing.T) {
	_, err := AssemblyToInstructions("bad.s", strings.NewReader("r1 = be16 r2\n"))
	qt.Assert(t, qt.IsNotNil(err))
}
