package ebpf

import "fmt"

// rawALU builds the single raw instruction shared by every ALU op after
// validating the registers involved.
func rawALU(inst Instruction, class, srcKind, op uint8, dst, src Register, imm int32) ([]RawInstruction, error) {
	if err := checkRegs(inst, dst, src); err != nil {
		return nil, err
	}

	return []RawInstruction{
		{Op: class | srcKind | op, Reg: NewReg(src, dst), Imm: imm},
	}, nil
}

func aluImmStr(dst Register, operator string, val int32, is64 bool) string {
	if is64 {
		return fmt.Sprintf("%s %s %d", dst, operator, val)
	}
	return fmt.Sprintf("w%d %s %d", uint8(dst), operator, val)
}

func aluRegStr(dst, src Register, operator string, is64 bool) string {
	if is64 {
		return fmt.Sprintf("%s %s %s", dst, operator, src)
	}
	return fmt.Sprintf("w%d %s w%d", uint8(dst), operator, uint8(src))
}

var _ Instruction = (*Add32)(nil)

type Add32 struct {
	Dest  Register
	Value int32
}

func (a *Add32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_ADD, a.Dest, 0, a.Value)
}

func (a *Add32) String() string { return aluImmStr(a.Dest, "+=", a.Value, false) }

var _ Instruction = (*Add32Register)(nil)

type Add32Register struct {
	Dest Register
	Src  Register
}

func (a *Add32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_ADD, a.Dest, a.Src, 0)
}

func (a *Add32Register) String() string { return aluRegStr(a.Dest, a.Src, "+=", false) }

var _ Instruction = (*Add64)(nil)

type Add64 struct {
	Dest  Register
	Value int32
}

func (a *Add64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_ADD, a.Dest, 0, a.Value)
}

func (a *Add64) String() string { return aluImmStr(a.Dest, "+=", a.Value, true) }

var _ Instruction = (*Add64Register)(nil)

type Add64Register struct {
	Dest Register
	Src  Register
}

func (a *Add64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_ADD, a.Dest, a.Src, 0)
}

func (a *Add64Register) String() string { return aluRegStr(a.Dest, a.Src, "+=", true) }

var _ Instruction = (*Sub32)(nil)

type Sub32 struct {
	Dest  Register
	Value int32
}

func (a *Sub32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_SUB, a.Dest, 0, a.Value)
}

func (a *Sub32) String() string { return aluImmStr(a.Dest, "-=", a.Value, false) }

var _ Instruction = (*Sub32Register)(nil)

type Sub32Register struct {
	Dest Register
	Src  Register
}

func (a *Sub32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_SUB, a.Dest, a.Src, 0)
}

func (a *Sub32Register) String() string { return aluRegStr(a.Dest, a.Src, "-=", false) }

var _ Instruction = (*Sub64)(nil)

type Sub64 struct {
	Dest  Register
	Value int32
}

func (a *Sub64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_SUB, a.Dest, 0, a.Value)
}

func (a *Sub64) String() string { return aluImmStr(a.Dest, "-=", a.Value, true) }

var _ Instruction = (*Sub64Register)(nil)

type Sub64Register struct {
	Dest Register
	Src  Register
}

func (a *Sub64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_SUB, a.Dest, a.Src, 0)
}

func (a *Sub64Register) String() string { return aluRegStr(a.Dest, a.Src, "-=", true) }

var _ Instruction = (*Mul32)(nil)

type Mul32 struct {
	Dest  Register
	Value int32
}

func (a *Mul32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_MUL, a.Dest, 0, a.Value)
}

func (a *Mul32) String() string { return aluImmStr(a.Dest, "*=", a.Value, false) }

var _ Instruction = (*Mul32Register)(nil)

type Mul32Register struct {
	Dest Register
	Src  Register
}

func (a *Mul32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_MUL, a.Dest, a.Src, 0)
}

func (a *Mul32Register) String() string { return aluRegStr(a.Dest, a.Src, "*=", false) }

var _ Instruction = (*Mul64)(nil)

type Mul64 struct {
	Dest  Register
	Value int32
}

func (a *Mul64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_MUL, a.Dest, 0, a.Value)
}

func (a *Mul64) String() string { return aluImmStr(a.Dest, "*=", a.Value, true) }

var _ Instruction = (*Mul64Register)(nil)

type Mul64Register struct {
	Dest Register
	Src  Register
}

func (a *Mul64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_MUL, a.Dest, a.Src, 0)
}

func (a *Mul64Register) String() string { return aluRegStr(a.Dest, a.Src, "*=", true) }

var _ Instruction = (*Div32)(nil)

type Div32 struct {
	Dest  Register
	Value int32
}

func (a *Div32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_DIV, a.Dest, 0, a.Value)
}

func (a *Div32) String() string { return aluImmStr(a.Dest, "/=", a.Value, false) }

var _ Instruction = (*Div32Register)(nil)

type Div32Register struct {
	Dest Register
	Src  Register
}

func (a *Div32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_DIV, a.Dest, a.Src, 0)
}

func (a *Div32Register) String() string { return aluRegStr(a.Dest, a.Src, "/=", false) }

var _ Instruction = (*Div64)(nil)

type Div64 struct {
	Dest  Register
	Value int32
}

func (a *Div64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_DIV, a.Dest, 0, a.Value)
}

func (a *Div64) String() string { return aluImmStr(a.Dest, "/=", a.Value, true) }

var _ Instruction = (*Div64Register)(nil)

type Div64Register struct {
	Dest Register
	Src  Register
}

func (a *Div64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_DIV, a.Dest, a.Src, 0)
}

func (a *Div64Register) String() string { return aluRegStr(a.Dest, a.Src, "/=", true) }

var _ Instruction = (*Or32)(nil)

type Or32 struct {
	Dest  Register
	Value int32
}

func (a *Or32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_OR, a.Dest, 0, a.Value)
}

func (a *Or32) String() string { return aluImmStr(a.Dest, "|=", a.Value, false) }

var _ Instruction = (*Or32Register)(nil)

type Or32Register struct {
	Dest Register
	Src  Register
}

func (a *Or32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_OR, a.Dest, a.Src, 0)
}

func (a *Or32Register) String() string { return aluRegStr(a.Dest, a.Src, "|=", false) }

var _ Instruction = (*Or64)(nil)

type Or64 struct {
	Dest  Register
	Value int32
}

func (a *Or64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_OR, a.Dest, 0, a.Value)
}

func (a *Or64) String() string { return aluImmStr(a.Dest, "|=", a.Value, true) }

var _ Instruction = (*Or64Register)(nil)

type Or64Register struct {
	Dest Register
	Src  Register
}

func (a *Or64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_OR, a.Dest, a.Src, 0)
}

func (a *Or64Register) String() string { return aluRegStr(a.Dest, a.Src, "|=", true) }

var _ Instruction = (*And32)(nil)

type And32 struct {
	Dest  Register
	Value int32
}

func (a *And32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_AND, a.Dest, 0, a.Value)
}

func (a *And32) String() string { return aluImmStr(a.Dest, "&=", a.Value, false) }

var _ Instruction = (*And32Register)(nil)

type And32Register struct {
	Dest Register
	Src  Register
}

func (a *And32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_AND, a.Dest, a.Src, 0)
}

func (a *And32Register) String() string { return aluRegStr(a.Dest, a.Src, "&=", false) }

var _ Instruction = (*And64)(nil)

type And64 struct {
	Dest  Register
	Value int32
}

func (a *And64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_AND, a.Dest, 0, a.Value)
}

func (a *And64) String() string { return aluImmStr(a.Dest, "&=", a.Value, true) }

var _ Instruction = (*And64Register)(nil)

type And64Register struct {
	Dest Register
	Src  Register
}

func (a *And64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_AND, a.Dest, a.Src, 0)
}

func (a *And64Register) String() string { return aluRegStr(a.Dest, a.Src, "&=", true) }

var _ Instruction = (*Lsh32)(nil)

type Lsh32 struct {
	Dest  Register
	Value int32
}

func (a *Lsh32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_LSH, a.Dest, 0, a.Value)
}

func (a *Lsh32) String() string { return aluImmStr(a.Dest, "<<=", a.Value, false) }

var _ Instruction = (*Lsh32Register)(nil)

type Lsh32Register struct {
	Dest Register
	Src  Register
}

func (a *Lsh32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_LSH, a.Dest, a.Src, 0)
}

func (a *Lsh32Register) String() string { return aluRegStr(a.Dest, a.Src, "<<=", false) }

var _ Instruction = (*Lsh64)(nil)

type Lsh64 struct {
	Dest  Register
	Value int32
}

func (a *Lsh64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_LSH, a.Dest, 0, a.Value)
}

func (a *Lsh64) String() string { return aluImmStr(a.Dest, "<<=", a.Value, true) }

var _ Instruction = (*Lsh64Register)(nil)

type Lsh64Register struct {
	Dest Register
	Src  Register
}

func (a *Lsh64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_LSH, a.Dest, a.Src, 0)
}

func (a *Lsh64Register) String() string { return aluRegStr(a.Dest, a.Src, "<<=", true) }

var _ Instruction = (*Rsh32)(nil)

type Rsh32 struct {
	Dest  Register
	Value int32
}

func (a *Rsh32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_RSH, a.Dest, 0, a.Value)
}

func (a *Rsh32) String() string { return aluImmStr(a.Dest, ">>=", a.Value, false) }

var _ Instruction = (*Rsh32Register)(nil)

type Rsh32Register struct {
	Dest Register
	Src  Register
}

func (a *Rsh32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_RSH, a.Dest, a.Src, 0)
}

func (a *Rsh32Register) String() string { return aluRegStr(a.Dest, a.Src, ">>=", false) }

var _ Instruction = (*Rsh64)(nil)

type Rsh64 struct {
	Dest  Register
	Value int32
}

func (a *Rsh64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_RSH, a.Dest, 0, a.Value)
}

func (a *Rsh64) String() string { return aluImmStr(a.Dest, ">>=", a.Value, true) }

var _ Instruction = (*Rsh64Register)(nil)

type Rsh64Register struct {
	Dest Register
	Src  Register
}

func (a *Rsh64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_RSH, a.Dest, a.Src, 0)
}

func (a *Rsh64Register) String() string { return aluRegStr(a.Dest, a.Src, ">>=", true) }

var _ Instruction = (*Neg32)(nil)

type Neg32 struct {
	Dest Register
}

func (a *Neg32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_NEG, a.Dest, 0, 0)
}

func (a *Neg32) String() string { return fmt.Sprintf("w%d = -w%d", uint8(a.Dest), uint8(a.Dest)) }

var _ Instruction = (*Neg64)(nil)

type Neg64 struct {
	Dest Register
}

func (a *Neg64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_NEG, a.Dest, 0, 0)
}

func (a *Neg64) String() string { return fmt.Sprintf("%s = -%s", a.Dest, a.Dest) }

var _ Instruction = (*Mod32)(nil)

type Mod32 struct {
	Dest  Register
	Value int32
}

func (a *Mod32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_MOD, a.Dest, 0, a.Value)
}

func (a *Mod32) String() string { return aluImmStr(a.Dest, "%=", a.Value, false) }

var _ Instruction = (*Mod32Register)(nil)

type Mod32Register struct {
	Dest Register
	Src  Register
}

func (a *Mod32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_MOD, a.Dest, a.Src, 0)
}

func (a *Mod32Register) String() string { return aluRegStr(a.Dest, a.Src, "%=", false) }

var _ Instruction = (*Mod64)(nil)

type Mod64 struct {
	Dest  Register
	Value int32
}

func (a *Mod64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_MOD, a.Dest, 0, a.Value)
}

func (a *Mod64) String() string { return aluImmStr(a.Dest, "%=", a.Value, true) }

var _ Instruction = (*Mod64Register)(nil)

type Mod64Register struct {
	Dest Register
	Src  Register
}

func (a *Mod64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_MOD, a.Dest, a.Src, 0)
}

func (a *Mod64Register) String() string { return aluRegStr(a.Dest, a.Src, "%=", true) }

var _ Instruction = (*Xor32)(nil)

type Xor32 struct {
	Dest  Register
	Value int32
}

func (a *Xor32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_XOR, a.Dest, 0, a.Value)
}

func (a *Xor32) String() string { return aluImmStr(a.Dest, "^=", a.Value, false) }

var _ Instruction = (*Xor32Register)(nil)

type Xor32Register struct {
	Dest Register
	Src  Register
}

func (a *Xor32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_XOR, a.Dest, a.Src, 0)
}

func (a *Xor32Register) String() string { return aluRegStr(a.Dest, a.Src, "^=", false) }

var _ Instruction = (*Xor64)(nil)

type Xor64 struct {
	Dest  Register
	Value int32
}

func (a *Xor64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_XOR, a.Dest, 0, a.Value)
}

func (a *Xor64) String() string { return aluImmStr(a.Dest, "^=", a.Value, true) }

var _ Instruction = (*Xor64Register)(nil)

type Xor64Register struct {
	Dest Register
	Src  Register
}

func (a *Xor64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_XOR, a.Dest, a.Src, 0)
}

func (a *Xor64Register) String() string { return aluRegStr(a.Dest, a.Src, "^=", true) }

var _ Instruction = (*Mov32)(nil)

type Mov32 struct {
	Dest  Register
	Value int32
}

func (a *Mov32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_MOV, a.Dest, 0, a.Value)
}

func (a *Mov32) String() string { return aluImmStr(a.Dest, "=", a.Value, false) }

var _ Instruction = (*Mov32Register)(nil)

type Mov32Register struct {
	Dest Register
	Src  Register
}

func (a *Mov32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_MOV, a.Dest, a.Src, 0)
}

func (a *Mov32Register) String() string { return aluRegStr(a.Dest, a.Src, "=", false) }

var _ Instruction = (*Mov64)(nil)

type Mov64 struct {
	Dest  Register
	Value int32
}

func (a *Mov64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_MOV, a.Dest, 0, a.Value)
}

func (a *Mov64) String() string { return aluImmStr(a.Dest, "=", a.Value, true) }

var _ Instruction = (*Mov64Register)(nil)

type Mov64Register struct {
	Dest Register
	Src  Register
}

func (a *Mov64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_MOV, a.Dest, a.Src, 0)
}

func (a *Mov64Register) String() string { return aluRegStr(a.Dest, a.Src, "=", true) }

var _ Instruction = (*ARSH32)(nil)

type ARSH32 struct {
	Dest  Register
	Value int32
}

func (a *ARSH32) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_K, BPF_ARSH, a.Dest, 0, a.Value)
}

func (a *ARSH32) String() string { return aluImmStr(a.Dest, "s>>=", a.Value, false) }

var _ Instruction = (*ARSH32Register)(nil)

type ARSH32Register struct {
	Dest Register
	Src  Register
}

func (a *ARSH32Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU, BPF_X, BPF_ARSH, a.Dest, a.Src, 0)
}

func (a *ARSH32Register) String() string { return aluRegStr(a.Dest, a.Src, "s>>=", false) }

var _ Instruction = (*ARSH64)(nil)

type ARSH64 struct {
	Dest  Register
	Value int32
}

func (a *ARSH64) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_K, BPF_ARSH, a.Dest, 0, a.Value)
}

func (a *ARSH64) String() string { return aluImmStr(a.Dest, "s>>=", a.Value, true) }

var _ Instruction = (*ARSH64Register)(nil)

type ARSH64Register struct {
	Dest Register
	Src  Register
}

func (a *ARSH64Register) Raw() ([]RawInstruction, error) {
	return rawALU(a, BPF_ALU64, BPF_X, BPF_ARSH, a.Dest, a.Src, 0)
}

func (a *ARSH64Register) String() string { return aluRegStr(a.Dest, a.Src, "s>>=", true) }
