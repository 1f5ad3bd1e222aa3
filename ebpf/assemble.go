package ebpf

import (
	"fmt"
	"math"
)

var _ Instruction = (*Label)(nil)

// Label marks a position in a symbolic program which jumps and bpf-to-bpf
// calls can target by name. It encodes to no raw instructions.
type Label struct {
	Name string
}

func (l *Label) Raw() ([]RawInstruction, error) {
	return nil, nil
}

func (l *Label) String() string {
	return l.Name + ":"
}

// AssemblyError is returned when a symbolic program can't be resolved into
// raw instructions. Index is the index of the offending instruction in the
// symbolic program.
type AssemblyError struct {
	Index int
	Inst  string
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble instruction %d '%s': %s", e.Index, e.Inst, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Assemble resolves the labels in a symbolic program and encodes it into raw
// instructions, ready to be loaded into the kernel.
//
// The first pass records the raw instruction index of every label, counting
// wide loads as the two slots they occupy. The second pass rewrites every
// jump or call with a label into a relative offset from the instruction
// after the branch. The input is modified in place, running Assemble twice
// over the same program yields the same output.
func Assemble(program []Instruction) ([]RawInstruction, error) {
	labels := make(map[string]int)
	rawIdx := 0
	for symIdx, inst := range program {
		if label, ok := inst.(*Label); ok {
			if label.Name == "" {
				return nil, &AssemblyError{
					Index: symIdx,
					Inst:  inst.String(),
					Err:   fmt.Errorf("label name can't be empty"),
				}
			}
			if dup, found := labels[label.Name]; found {
				return nil, &AssemblyError{
					Index: symIdx,
					Inst:  inst.String(),
					Err:   fmt.Errorf("duplicate label, first defined at raw instruction %d", dup),
				}
			}
			labels[label.Name] = rawIdx
			continue
		}

		raw, err := inst.Raw()
		if err != nil {
			return nil, &AssemblyError{Index: symIdx, Inst: inst.String(), Err: err}
		}
		rawIdx += len(raw)
	}

	rawIdx = 0
	for symIdx, inst := range program {
		if targeter, ok := inst.(Targeter); ok && targeter.Target() != "" {
			target, found := labels[targeter.Target()]
			if !found {
				return nil, &AssemblyError{
					Index: symIdx,
					Inst:  inst.String(),
					Err:   fmt.Errorf("undefined label '%s'", targeter.Target()),
				}
			}

			// Branch offsets are relative to the instruction after the
			// branch itself.
			rel := target - rawIdx - 1
			if rel < math.MinInt16 || rel > math.MaxInt16 {
				return nil, &AssemblyError{
					Index: symIdx,
					Inst:  inst.String(),
					Err:   fmt.Errorf("jump offset %d doesn't fit in 16 bits", rel),
				}
			}
			targeter.SetJumpTarget(int16(rel))
		}

		raw, err := inst.Raw()
		if err != nil {
			return nil, &AssemblyError{Index: symIdx, Inst: inst.String(), Err: err}
		}
		rawIdx += len(raw)
	}

	return Encode(program)
}

// MustAssemble does the same as Assemble but panics on error.
func MustAssemble(program []Instruction) []RawInstruction {
	raw, err := Assemble(program)
	if err != nil {
		panic(err)
	}
	return raw
}
