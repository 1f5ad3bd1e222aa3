package ebpf

import "fmt"

// rawAtomic builds the raw instruction for an atomic read-modify-write op.
// The actual operation lives in the immediate field, the op byte only says
// "atomic store of this size".
func rawAtomic(inst Instruction, op int32, dst, src Register, off int16, size Size) ([]RawInstruction, error) {
	if err := checkRegs(inst, dst, src); err != nil {
		return nil, err
	}
	if size != BPF_W && size != BPF_DW {
		return nil, &EncodingError{
			Inst: inst.String(),
			Err:  fmt.Errorf("atomic operations only support word and double-word sizes"),
		}
	}

	return []RawInstruction{
		{Op: uint8(BPF_STX) | uint8(size) | BPF_ATOMIC, Reg: NewReg(src, dst), Off: off, Imm: op},
	}, nil
}

func atomicOp(op uint8, fetch bool) int32 {
	if fetch {
		return int32(op | BPF_FETCH)
	}
	return int32(op)
}

func atomicStr(operator string, dst, src Register, off int16, size Size, fetch bool) string {
	if fetch {
		return fmt.Sprintf("%s = atomic_fetch_%s((%s *)(%s %+d), %s)", src, operator, size, dst, off, src)
	}
	return fmt.Sprintf("lock *(%s *)(%s %+d) %s= %s", size, dst, off, operator, src)
}

var _ Instruction = (*AtomicAdd)(nil)

// AtomicAdd atomically adds Src to the memory Dest points at, plus Offset.
// With Fetch set the pre-modification value is written back to Src.
type AtomicAdd struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
	Fetch  bool
}

func (a *AtomicAdd) Raw() ([]RawInstruction, error) {
	return rawAtomic(a, atomicOp(BPF_ADD, a.Fetch), a.Dest, a.Src, a.Offset, a.Size)
}

func (a *AtomicAdd) String() string {
	return atomicStr("add", a.Dest, a.Src, a.Offset, a.Size, a.Fetch)
}

var _ Instruction = (*AtomicAnd)(nil)

type AtomicAnd struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
	Fetch  bool
}

func (a *AtomicAnd) Raw() ([]RawInstruction, error) {
	return rawAtomic(a, atomicOp(BPF_AND, a.Fetch), a.Dest, a.Src, a.Offset, a.Size)
}

func (a *AtomicAnd) String() string {
	return atomicStr("and", a.Dest, a.Src, a.Offset, a.Size, a.Fetch)
}

var _ Instruction = (*AtomicOr)(nil)

type AtomicOr struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
	Fetch  bool
}

func (a *AtomicOr) Raw() ([]RawInstruction, error) {
	return rawAtomic(a, atomicOp(BPF_OR, a.Fetch), a.Dest, a.Src, a.Offset, a.Size)
}

func (a *AtomicOr) String() string {
	return atomicStr("or", a.Dest, a.Src, a.Offset, a.Size, a.Fetch)
}

var _ Instruction = (*AtomicXor)(nil)

type AtomicXor struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
	Fetch  bool
}

func (a *AtomicXor) Raw() ([]RawInstruction, error) {
	return rawAtomic(a, atomicOp(BPF_XOR, a.Fetch), a.Dest, a.Src, a.Offset, a.Size)
}

func (a *AtomicXor) String() string {
	return atomicStr("xor", a.Dest, a.Src, a.Offset, a.Size, a.Fetch)
}

var _ Instruction = (*AtomicExchange)(nil)

// AtomicExchange atomically swaps Src with the memory Dest points at, plus
// Offset. The old memory value always ends up in Src.
type AtomicExchange struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
}

func (a *AtomicExchange) Raw() ([]RawInstruction, error) {
	return rawAtomic(a, int32(BPF_XCHG), a.Dest, a.Src, a.Offset, a.Size)
}

func (a *AtomicExchange) String() string {
	return fmt.Sprintf("%s = xchg((%s *)(%s %+d), %s)", a.Src, a.Size, a.Dest, a.Offset, a.Src)
}

var _ Instruction = (*AtomicCompareExchange)(nil)

// AtomicCompareExchange atomically compares r0 with the memory Dest points
// at, plus Offset, and writes Src there when they match. The old memory
// value always ends up in r0.
type AtomicCompareExchange struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
}

func (a *AtomicCompareExchange) Raw() ([]RawInstruction, error) {
	return rawAtomic(a, int32(BPF_CMPXCHG), a.Dest, a.Src, a.Offset, a.Size)
}

func (a *AtomicCompareExchange) String() string {
	return fmt.Sprintf("r0 = cmpxchg((%s *)(%s %+d), r0, %s)", a.Size, a.Dest, a.Offset, a.Src)
}
