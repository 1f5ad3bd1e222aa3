package ebpf

import "fmt"

// Source register values with special meaning in a 64bit load instruction.
const (
	// BPF_PSEUDO_MAP_FD tells the kernel that the immediate value is a file
	// descriptor of a map, which the verifier rewrites to the map's kernel
	// address.
	BPF_PSEUDO_MAP_FD Register = 1
	// BPF_PSEUDO_MAP_FD_VALUE tells the kernel that the immediate value is
	// a map file descriptor plus an offset into the map's value.
	BPF_PSEUDO_MAP_FD_VALUE Register = 2
	// BPF_PSEUDO_BTF_ID tells the kernel that the immediate value is a BTF
	// type id of a kernel variable.
	BPF_PSEUDO_BTF_ID Register = 3
	// BPF_PSEUDO_FUNC tells the kernel that the immediate value is an
	// instruction offset of a bpf function.
	BPF_PSEUDO_FUNC Register = 4
)

var _ Instruction = (*LoadConstant64bit)(nil)

// LoadConstant64bit loads a 64bit constant into Dest. It is the only wide
// instruction, occupying two 8 byte slots in the encoded program. Src is
// normally 0, the BPF_PSEUDO_* values give the immediate a special meaning.
type LoadConstant64bit struct {
	Dest Register
	Src  Register
	Val1 uint32
	Val2 uint32
}

func (lc *LoadConstant64bit) Raw() ([]RawInstruction, error) {
	if err := checkRegs(lc, lc.Dest); err != nil {
		return nil, err
	}
	if lc.Src > BPF_PSEUDO_FUNC {
		return nil, &EncodingError{
			Inst: lc.String(),
			Err:  fmt.Errorf("source value %d is not a valid pseudo source", uint8(lc.Src)),
		}
	}

	return []RawInstruction{
		{Op: uint8(BPF_LD) | uint8(BPF_DW) | BPF_IMM, Reg: NewReg(lc.Src, lc.Dest), Imm: int32(lc.Val1)},
		{Imm: int32(lc.Val2)},
	}, nil
}

func (lc *LoadConstant64bit) String() string {
	switch lc.Src {
	case BPF_PSEUDO_MAP_FD:
		return fmt.Sprintf("%s = map fd %d ll", lc.Dest, lc.Val1)
	case BPF_PSEUDO_MAP_FD_VALUE:
		return fmt.Sprintf("%s = map fd %d value +%d ll", lc.Dest, lc.Val1, lc.Val2)
	default:
		return fmt.Sprintf("%s = %d ll", lc.Dest, uint64(lc.Val2)<<32|uint64(lc.Val1))
	}
}

// LoadMapFD returns a wide load which the verifier resolves into the kernel
// address of the map behind the given file descriptor.
func LoadMapFD(dest Register, fd uint32) *LoadConstant64bit {
	return &LoadConstant64bit{
		Dest: dest,
		Src:  BPF_PSEUDO_MAP_FD,
		Val1: fd,
	}
}

// LoadMapValue returns a wide load which the verifier resolves into a pointer
// at the given offset into the value of the map behind the file descriptor.
// Only valid for maps with a single element like arrays of size 1.
func LoadMapValue(dest Register, fd uint32, valueOffset uint32) *LoadConstant64bit {
	return &LoadConstant64bit{
		Dest: dest,
		Src:  BPF_PSEUDO_MAP_FD_VALUE,
		Val1: fd,
		Val2: valueOffset,
	}
}

var _ Instruction = (*LoadMemory)(nil)

// LoadMemory loads Size bytes from the memory Src points at, plus Offset,
// into Dest.
type LoadMemory struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
}

func (lm *LoadMemory) Raw() ([]RawInstruction, error) {
	if err := checkRegs(lm, lm.Dest, lm.Src); err != nil {
		return nil, err
	}

	return []RawInstruction{
		{Op: uint8(BPF_LDX) | uint8(lm.Size) | BPF_MEM, Reg: NewReg(lm.Src, lm.Dest), Off: lm.Offset},
	}, nil
}

func (lm *LoadMemory) String() string {
	return fmt.Sprintf("%s = *(%s *)(%s %+d)", lm.Dest, lm.Size, lm.Src, lm.Offset)
}

var _ Instruction = (*LoadSocketBuf)(nil)

// LoadSocketBuf loads Size bytes at the absolute Offset into the packet of
// the socket buffer in the program context into r0. Legacy packet access,
// only valid in socket filter style programs.
type LoadSocketBuf struct {
	Offset int32
	Size   Size
}

func (ls *LoadSocketBuf) Raw() ([]RawInstruction, error) {
	return []RawInstruction{
		{Op: uint8(BPF_LD) | uint8(ls.Size) | BPF_ABS, Imm: ls.Offset},
	}, nil
}

func (ls *LoadSocketBuf) String() string {
	return fmt.Sprintf("r0 = *(%s *)skb[%d]", ls.Size, ls.Offset)
}

var _ Instruction = (*LoadSocketBufIndirect)(nil)

// LoadSocketBufIndirect is LoadSocketBuf with the packet offset taken from
// Src plus Offset.
type LoadSocketBufIndirect struct {
	Src    Register
	Offset int32
	Size   Size
}

func (ls *LoadSocketBufIndirect) Raw() ([]RawInstruction, error) {
	if err := checkRegs(ls, ls.Src); err != nil {
		return nil, err
	}

	return []RawInstruction{
		{Op: uint8(BPF_LD) | uint8(ls.Size) | BPF_IND, Reg: NewReg(ls.Src, 0), Imm: ls.Offset},
	}, nil
}

func (ls *LoadSocketBufIndirect) String() string {
	return fmt.Sprintf("r0 = *(%s *)skb[%s %+d]", ls.Size, ls.Src, ls.Offset)
}

var _ Instruction = (*StoreMemoryConstant)(nil)

// StoreMemoryConstant stores Value as Size bytes at the memory Dest points
// at, plus Offset.
type StoreMemoryConstant struct {
	Dest   Register
	Offset int16
	Size   Size
	Value  int32
}

func (sm *StoreMemoryConstant) Raw() ([]RawInstruction, error) {
	if err := checkRegs(sm, sm.Dest); err != nil {
		return nil, err
	}

	return []RawInstruction{
		{Op: uint8(BPF_ST) | uint8(sm.Size) | BPF_MEM, Reg: NewReg(0, sm.Dest), Off: sm.Offset, Imm: sm.Value},
	}, nil
}

func (sm *StoreMemoryConstant) String() string {
	return fmt.Sprintf("*(%s *)(%s %+d) = %d", sm.Size, sm.Dest, sm.Offset, sm.Value)
}

var _ Instruction = (*StoreMemoryRegister)(nil)

// StoreMemoryRegister stores the lowest Size bytes of Src at the memory Dest
// points at, plus Offset.
type StoreMemoryRegister struct {
	Dest   Register
	Src    Register
	Offset int16
	Size   Size
}

func (sm *StoreMemoryRegister) Raw() ([]RawInstruction, error) {
	if err := checkRegs(sm, sm.Dest, sm.Src); err != nil {
		return nil, err
	}

	return []RawInstruction{
		{Op: uint8(BPF_STX) | uint8(sm.Size) | BPF_MEM, Reg: NewReg(sm.Src, sm.Dest), Off: sm.Offset},
	}, nil
}

func (sm *StoreMemoryRegister) String() string {
	return fmt.Sprintf("*(%s *)(%s %+d) = %s", sm.Size, sm.Dest, sm.Offset, sm.Src)
}
