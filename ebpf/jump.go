package ebpf

import "fmt"

// rawJump builds the single raw instruction shared by every jump op after
// validating the registers involved.
func rawJump(inst Instruction, class, srcKind, op uint8, dst, src Register, off int16, imm int32) ([]RawInstruction, error) {
	if err := checkRegs(inst, dst, src); err != nil {
		return nil, err
	}

	return []RawInstruction{
		{Op: class | srcKind | op, Reg: NewReg(src, dst), Off: off, Imm: imm},
	}, nil
}

// jumpTarget renders the branch target, preferring the symbolic label when
// the offset has not been resolved yet.
func jumpTarget(off int16, label string) string {
	if label != "" {
		return "<" + label + ">"
	}
	return fmt.Sprintf("%+d", off)
}

var _ Instruction = (*Jump)(nil)
var _ Targeter = (*Jump)(nil)

// Jump continues execution at the instruction Offset instructions after the
// next one. The Label, if set, is resolved into Offset by Assemble.
type Jump struct {
	Label  string
	Offset int16
}

func (j *Jump) Raw() ([]RawInstruction, error) {
	return []RawInstruction{
		{Op: BPF_JMP | BPF_JA, Off: j.Offset},
	}, nil
}

func (j *Jump) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *Jump) Target() string {
	return j.Label
}

func (j *Jump) String() string {
	return "goto " + jumpTarget(j.Offset, j.Label)
}

var _ Instruction = (*JumpEqual)(nil)
var _ Targeter = (*JumpEqual)(nil)

type JumpEqual struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpEqual) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JEQ, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpEqual) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpEqual) Target() string {
	return j.Label
}

func (j *JumpEqual) String() string {
	return fmt.Sprintf("if %s == %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpEqualRegister)(nil)
var _ Targeter = (*JumpEqualRegister)(nil)

type JumpEqualRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpEqualRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JEQ, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpEqualRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpEqualRegister) Target() string {
	return j.Label
}

func (j *JumpEqualRegister) String() string {
	return fmt.Sprintf("if %s == %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpEqual32)(nil)
var _ Targeter = (*JumpEqual32)(nil)

type JumpEqual32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpEqual32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JEQ, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpEqual32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpEqual32) Target() string {
	return j.Label
}

func (j *JumpEqual32) String() string {
	return fmt.Sprintf("if w%d == %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpEqual32Register)(nil)
var _ Targeter = (*JumpEqual32Register)(nil)

type JumpEqual32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpEqual32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JEQ, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpEqual32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpEqual32Register) Target() string {
	return j.Label
}

func (j *JumpEqual32Register) String() string {
	return fmt.Sprintf("if w%d == w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpNotEqual)(nil)
var _ Targeter = (*JumpNotEqual)(nil)

type JumpNotEqual struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpNotEqual) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JNE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpNotEqual) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpNotEqual) Target() string {
	return j.Label
}

func (j *JumpNotEqual) String() string {
	return fmt.Sprintf("if %s != %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpNotEqualRegister)(nil)
var _ Targeter = (*JumpNotEqualRegister)(nil)

type JumpNotEqualRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpNotEqualRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JNE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpNotEqualRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpNotEqualRegister) Target() string {
	return j.Label
}

func (j *JumpNotEqualRegister) String() string {
	return fmt.Sprintf("if %s != %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpNotEqual32)(nil)
var _ Targeter = (*JumpNotEqual32)(nil)

type JumpNotEqual32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpNotEqual32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JNE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpNotEqual32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpNotEqual32) Target() string {
	return j.Label
}

func (j *JumpNotEqual32) String() string {
	return fmt.Sprintf("if w%d != %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpNotEqual32Register)(nil)
var _ Targeter = (*JumpNotEqual32Register)(nil)

type JumpNotEqual32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpNotEqual32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JNE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpNotEqual32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpNotEqual32Register) Target() string {
	return j.Label
}

func (j *JumpNotEqual32Register) String() string {
	return fmt.Sprintf("if w%d != w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThan)(nil)
var _ Targeter = (*JumpGreaterThan)(nil)

type JumpGreaterThan struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpGreaterThan) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JGT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpGreaterThan) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThan) Target() string {
	return j.Label
}

func (j *JumpGreaterThan) String() string {
	return fmt.Sprintf("if %s > %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThanRegister)(nil)
var _ Targeter = (*JumpGreaterThanRegister)(nil)

type JumpGreaterThanRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpGreaterThanRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JGT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpGreaterThanRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThanRegister) Target() string {
	return j.Label
}

func (j *JumpGreaterThanRegister) String() string {
	return fmt.Sprintf("if %s > %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThan32)(nil)
var _ Targeter = (*JumpGreaterThan32)(nil)

type JumpGreaterThan32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpGreaterThan32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JGT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpGreaterThan32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThan32) Target() string {
	return j.Label
}

func (j *JumpGreaterThan32) String() string {
	return fmt.Sprintf("if w%d > %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThan32Register)(nil)
var _ Targeter = (*JumpGreaterThan32Register)(nil)

type JumpGreaterThan32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpGreaterThan32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JGT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpGreaterThan32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThan32Register) Target() string {
	return j.Label
}

func (j *JumpGreaterThan32Register) String() string {
	return fmt.Sprintf("if w%d > w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThanEqual)(nil)
var _ Targeter = (*JumpGreaterThanEqual)(nil)

type JumpGreaterThanEqual struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpGreaterThanEqual) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JGE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpGreaterThanEqual) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThanEqual) Target() string {
	return j.Label
}

func (j *JumpGreaterThanEqual) String() string {
	return fmt.Sprintf("if %s >= %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThanEqualRegister)(nil)
var _ Targeter = (*JumpGreaterThanEqualRegister)(nil)

type JumpGreaterThanEqualRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpGreaterThanEqualRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JGE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpGreaterThanEqualRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThanEqualRegister) Target() string {
	return j.Label
}

func (j *JumpGreaterThanEqualRegister) String() string {
	return fmt.Sprintf("if %s >= %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThanEqual32)(nil)
var _ Targeter = (*JumpGreaterThanEqual32)(nil)

type JumpGreaterThanEqual32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpGreaterThanEqual32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JGE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpGreaterThanEqual32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThanEqual32) Target() string {
	return j.Label
}

func (j *JumpGreaterThanEqual32) String() string {
	return fmt.Sprintf("if w%d >= %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpGreaterThanEqual32Register)(nil)
var _ Targeter = (*JumpGreaterThanEqual32Register)(nil)

type JumpGreaterThanEqual32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpGreaterThanEqual32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JGE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpGreaterThanEqual32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpGreaterThanEqual32Register) Target() string {
	return j.Label
}

func (j *JumpGreaterThanEqual32Register) String() string {
	return fmt.Sprintf("if w%d >= w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThan)(nil)
var _ Targeter = (*JumpSmallerThan)(nil)

type JumpSmallerThan struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpSmallerThan) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JLT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSmallerThan) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThan) Target() string {
	return j.Label
}

func (j *JumpSmallerThan) String() string {
	return fmt.Sprintf("if %s < %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThanRegister)(nil)
var _ Targeter = (*JumpSmallerThanRegister)(nil)

type JumpSmallerThanRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSmallerThanRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JLT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSmallerThanRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThanRegister) Target() string {
	return j.Label
}

func (j *JumpSmallerThanRegister) String() string {
	return fmt.Sprintf("if %s < %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThan32)(nil)
var _ Targeter = (*JumpSmallerThan32)(nil)

type JumpSmallerThan32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpSmallerThan32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JLT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSmallerThan32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThan32) Target() string {
	return j.Label
}

func (j *JumpSmallerThan32) String() string {
	return fmt.Sprintf("if w%d < %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThan32Register)(nil)
var _ Targeter = (*JumpSmallerThan32Register)(nil)

type JumpSmallerThan32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSmallerThan32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JLT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSmallerThan32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThan32Register) Target() string {
	return j.Label
}

func (j *JumpSmallerThan32Register) String() string {
	return fmt.Sprintf("if w%d < w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThanEqual)(nil)
var _ Targeter = (*JumpSmallerThanEqual)(nil)

type JumpSmallerThanEqual struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpSmallerThanEqual) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JLE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSmallerThanEqual) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThanEqual) Target() string {
	return j.Label
}

func (j *JumpSmallerThanEqual) String() string {
	return fmt.Sprintf("if %s <= %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThanEqualRegister)(nil)
var _ Targeter = (*JumpSmallerThanEqualRegister)(nil)

type JumpSmallerThanEqualRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSmallerThanEqualRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JLE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSmallerThanEqualRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThanEqualRegister) Target() string {
	return j.Label
}

func (j *JumpSmallerThanEqualRegister) String() string {
	return fmt.Sprintf("if %s <= %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThanEqual32)(nil)
var _ Targeter = (*JumpSmallerThanEqual32)(nil)

type JumpSmallerThanEqual32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpSmallerThanEqual32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JLE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSmallerThanEqual32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThanEqual32) Target() string {
	return j.Label
}

func (j *JumpSmallerThanEqual32) String() string {
	return fmt.Sprintf("if w%d <= %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSmallerThanEqual32Register)(nil)
var _ Targeter = (*JumpSmallerThanEqual32Register)(nil)

type JumpSmallerThanEqual32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSmallerThanEqual32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JLE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSmallerThanEqual32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSmallerThanEqual32Register) Target() string {
	return j.Label
}

func (j *JumpSmallerThanEqual32Register) String() string {
	return fmt.Sprintf("if w%d <= w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThan)(nil)
var _ Targeter = (*JumpSignedGreaterThan)(nil)

type JumpSignedGreaterThan struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedGreaterThan) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JSGT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedGreaterThan) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThan) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThan) String() string {
	return fmt.Sprintf("if %s s> %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThanRegister)(nil)
var _ Targeter = (*JumpSignedGreaterThanRegister)(nil)

type JumpSignedGreaterThanRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedGreaterThanRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JSGT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedGreaterThanRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThanRegister) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThanRegister) String() string {
	return fmt.Sprintf("if %s s> %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThan32)(nil)
var _ Targeter = (*JumpSignedGreaterThan32)(nil)

type JumpSignedGreaterThan32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedGreaterThan32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JSGT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedGreaterThan32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThan32) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThan32) String() string {
	return fmt.Sprintf("if w%d s> %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThan32Register)(nil)
var _ Targeter = (*JumpSignedGreaterThan32Register)(nil)

type JumpSignedGreaterThan32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedGreaterThan32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JSGT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedGreaterThan32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThan32Register) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThan32Register) String() string {
	return fmt.Sprintf("if w%d s> w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThanEqual)(nil)
var _ Targeter = (*JumpSignedGreaterThanEqual)(nil)

type JumpSignedGreaterThanEqual struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedGreaterThanEqual) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JSGE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedGreaterThanEqual) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThanEqual) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThanEqual) String() string {
	return fmt.Sprintf("if %s s>= %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThanEqualRegister)(nil)
var _ Targeter = (*JumpSignedGreaterThanEqualRegister)(nil)

type JumpSignedGreaterThanEqualRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedGreaterThanEqualRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JSGE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedGreaterThanEqualRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThanEqualRegister) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThanEqualRegister) String() string {
	return fmt.Sprintf("if %s s>= %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThanEqual32)(nil)
var _ Targeter = (*JumpSignedGreaterThanEqual32)(nil)

type JumpSignedGreaterThanEqual32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedGreaterThanEqual32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JSGE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedGreaterThanEqual32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThanEqual32) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThanEqual32) String() string {
	return fmt.Sprintf("if w%d s>= %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedGreaterThanEqual32Register)(nil)
var _ Targeter = (*JumpSignedGreaterThanEqual32Register)(nil)

type JumpSignedGreaterThanEqual32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedGreaterThanEqual32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JSGE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedGreaterThanEqual32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedGreaterThanEqual32Register) Target() string {
	return j.Label
}

func (j *JumpSignedGreaterThanEqual32Register) String() string {
	return fmt.Sprintf("if w%d s>= w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThan)(nil)
var _ Targeter = (*JumpSignedSmallerThan)(nil)

type JumpSignedSmallerThan struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedSmallerThan) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JSLT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedSmallerThan) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThan) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThan) String() string {
	return fmt.Sprintf("if %s s< %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThanRegister)(nil)
var _ Targeter = (*JumpSignedSmallerThanRegister)(nil)

type JumpSignedSmallerThanRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedSmallerThanRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JSLT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedSmallerThanRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThanRegister) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThanRegister) String() string {
	return fmt.Sprintf("if %s s< %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThan32)(nil)
var _ Targeter = (*JumpSignedSmallerThan32)(nil)

type JumpSignedSmallerThan32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedSmallerThan32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JSLT, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedSmallerThan32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThan32) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThan32) String() string {
	return fmt.Sprintf("if w%d s< %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThan32Register)(nil)
var _ Targeter = (*JumpSignedSmallerThan32Register)(nil)

type JumpSignedSmallerThan32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedSmallerThan32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JSLT, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedSmallerThan32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThan32Register) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThan32Register) String() string {
	return fmt.Sprintf("if w%d s< w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThanEqual)(nil)
var _ Targeter = (*JumpSignedSmallerThanEqual)(nil)

type JumpSignedSmallerThanEqual struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedSmallerThanEqual) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JSLE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedSmallerThanEqual) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThanEqual) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThanEqual) String() string {
	return fmt.Sprintf("if %s s<= %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThanEqualRegister)(nil)
var _ Targeter = (*JumpSignedSmallerThanEqualRegister)(nil)

type JumpSignedSmallerThanEqualRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedSmallerThanEqualRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JSLE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedSmallerThanEqualRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThanEqualRegister) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThanEqualRegister) String() string {
	return fmt.Sprintf("if %s s<= %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThanEqual32)(nil)
var _ Targeter = (*JumpSignedSmallerThanEqual32)(nil)

type JumpSignedSmallerThanEqual32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  int32
}

func (j *JumpSignedSmallerThanEqual32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JSLE, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpSignedSmallerThanEqual32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThanEqual32) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThanEqual32) String() string {
	return fmt.Sprintf("if w%d s<= %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpSignedSmallerThanEqual32Register)(nil)
var _ Targeter = (*JumpSignedSmallerThanEqual32Register)(nil)

type JumpSignedSmallerThanEqual32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpSignedSmallerThanEqual32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JSLE, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpSignedSmallerThanEqual32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpSignedSmallerThanEqual32Register) Target() string {
	return j.Label
}

func (j *JumpSignedSmallerThanEqual32Register) String() string {
	return fmt.Sprintf("if w%d s<= w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpAnd)(nil)
var _ Targeter = (*JumpAnd)(nil)

type JumpAnd struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpAnd) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_K, BPF_JSET, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpAnd) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpAnd) Target() string {
	return j.Label
}

func (j *JumpAnd) String() string {
	return fmt.Sprintf("if %s & %d goto %s", j.Dest, j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpAndRegister)(nil)
var _ Targeter = (*JumpAndRegister)(nil)

type JumpAndRegister struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpAndRegister) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP, BPF_X, BPF_JSET, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpAndRegister) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpAndRegister) Target() string {
	return j.Label
}

func (j *JumpAndRegister) String() string {
	return fmt.Sprintf("if %s & %s goto %s", j.Dest, j.Src, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpAnd32)(nil)
var _ Targeter = (*JumpAnd32)(nil)

type JumpAnd32 struct {
	Label  string
	Dest   Register
	Offset int16
	Value  uint32
}

func (j *JumpAnd32) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_K, BPF_JSET, j.Dest, 0, j.Offset, int32(j.Value))
}

func (j *JumpAnd32) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpAnd32) Target() string {
	return j.Label
}

func (j *JumpAnd32) String() string {
	return fmt.Sprintf("if w%d & %d goto %s", uint8(j.Dest), j.Value, jumpTarget(j.Offset, j.Label))
}

var _ Instruction = (*JumpAnd32Register)(nil)
var _ Targeter = (*JumpAnd32Register)(nil)

type JumpAnd32Register struct {
	Label  string
	Dest   Register
	Src    Register
	Offset int16
}

func (j *JumpAnd32Register) Raw() ([]RawInstruction, error) {
	return rawJump(j, BPF_JMP32, BPF_X, BPF_JSET, j.Dest, j.Src, j.Offset, 0)
}

func (j *JumpAnd32Register) SetJumpTarget(relAddr int16) {
	j.Offset = relAddr
}

func (j *JumpAnd32Register) Target() string {
	return j.Label
}

func (j *JumpAnd32Register) String() string {
	return fmt.Sprintf("if w%d & w%d goto %s", uint8(j.Dest), uint8(j.Src), jumpTarget(j.Offset, j.Label))
}
