package ebpf

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

// The canonical small program: conditionally skip a single instruction via a
// forward label.
func TestAssembleForwardJump(t *testing.T) {
	program := []Instruction{
		&Mov64{Dest: BPF_REG_0, Value: 5},
		&JumpEqual{Dest: BPF_REG_0, Value: 5, Label: "done"},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Label{Name: "done"},
		&Exit{},
	}

	raw, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(raw, 4))

	qt.Assert(t, qt.Equals(raw[1].Op, BPF_JMP|BPF_K|BPF_JEQ))
	qt.Assert(t, qt.Equals(raw[1].Off, int16(1)))
	qt.Assert(t, qt.Equals(raw[3].Op, BPF_JMP|BPF_EXIT))
}

func TestAssembleBackwardJump(t *testing.T) {
	program := []Instruction{
		&Label{Name: "top"},
		&Add64{Dest: BPF_REG_1, Value: 1},
		&JumpSmallerThan{Dest: BPF_REG_1, Value: 10, Label: "top"},
		&Exit{},
	}

	raw, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(raw, 3))

	// The branch sits at raw index 1, the label at raw index 0.
	qt.Assert(t, qt.Equals(raw[1].Off, int16(-2)))
}

// Wide loads occupy two raw slots, labels after one must account for both.
func TestAssembleJumpOverWideLoad(t *testing.T) {
	program := []Instruction{
		&Jump{Label: "end"},
		&LoadConstant64bit{Dest: BPF_REG_1, Val1: 1, Val2: 2},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Label{Name: "end"},
		&Exit{},
	}

	raw, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(raw, 5))
	qt.Assert(t, qt.Equals(raw[0].Off, int16(3)))
}

func TestAssembleJumpToSelfLabel(t *testing.T) {
	program := []Instruction{
		&Label{Name: "spin"},
		&Jump{Label: "spin"},
	}

	raw, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(raw, 1))
	qt.Assert(t, qt.Equals(raw[0].Off, int16(-1)))
}

func TestAssembleDuplicateLabel(t *testing.T) {
	program := []Instruction{
		&Label{Name: "here"},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Label{Name: "here"},
		&Exit{},
	}

	_, err := Assemble(program)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.StringContains(err.Error(), "duplicate label"))
}

func TestAssembleUndefinedLabel(t *testing.T) {
	program := []Instruction{
		&Jump{Label: "nowhere"},
		&Exit{},
	}

	_, err := Assemble(program)
	qt.Assert(t, qt.IsNotNil(err))

	var asmErr *AssemblyError
	qt.Assert(t, qt.IsTrue(errors.As(err, &asmErr)))
	qt.Assert(t, qt.Equals(asmErr.Index, 0))
	qt.Assert(t, qt.StringContains(err.Error(), "undefined label 'nowhere'"))
}

func TestAssembleEmptyLabelName(t *testing.T) {
	_, err := Assemble([]Instruction{&Label{}, &Exit{}})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestAssembleOffsetOverflow(t *testing.T) {
	program := make([]Instruction, 0, 40003)
	program = append(program, &Jump{Label: "end"})
	for i := 0; i < 40000; i++ {
		program = append(program, &Mov64{Dest: BPF_REG_0, Value: 0})
	}
	program = append(program, &Label{Name: "end"}, &Exit{})

	_, err := Assemble(program)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.StringContains(err.Error(), "16 bits"))
}

func TestAssembleInvalidRegister(t *testing.T) {
	_, err := Assemble([]Instruction{
		&Mov64{Dest: Register(15), Value: 0},
		&Exit{},
	})
	qt.Assert(t, qt.IsNotNil(err))

	var encErr *EncodingError
	qt.Assert(t, qt.IsTrue(errors.As(err, &encErr)))
}

// Running Assemble twice over the same program must produce identical
// output, resolution writes absolute results, not increments.
func TestAssembleDeterministic(t *testing.T) {
	program := []Instruction{
		&Mov64{Dest: BPF_REG_0, Value: 5},
		&JumpEqual{Dest: BPF_REG_0, Value: 5, Label: "done"},
		&Jump{Label: "done"},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Label{Name: "done"},
		&Exit{},
	}

	first, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	second, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.DeepEquals(second, first))
}

func TestAssembleNumericOffsetsUntouched(t *testing.T) {
	program := []Instruction{
		&JumpNotEqual{Dest: BPF_REG_0, Value: 1, Offset: 2},
		&Mov64{Dest: BPF_REG_0, Value: 0},
		&Mov64{Dest: BPF_REG_0, Value: 1},
		&Exit{},
	}

	raw, err := Assemble(program)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(raw[0].Off, int16(2)))
}

func TestLabelString(t *testing.T) {
	qt.Assert(t, qt.Equals((&Label{Name: "done"}).String(), "done:"))
	qt.Assert(t, qt.IsTrue(strings.Contains((&JumpEqual{Dest: BPF_REG_0, Value: 5, Label: "done"}).String(), "<done>")))
}
