package ebpf

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Instruction is any value that can be turned into one or more raw
// instructions. It returns a list since the 64-bit load-constant op occupies
// two raw instruction slots, every other op exactly one.
type Instruction interface {
	fmt.Stringer
	Raw() ([]RawInstruction, error)
}

// Jumper is any instruction whose relative jump offset can be patched after
// construction. The assembler uses it to resolve label targets.
type Jumper interface {
	SetJumpTarget(relAddr int16)
}

// Targeter is implemented by jump instructions which may carry a symbolic
// label instead of a numeric offset. An empty string means the numeric
// offset is authoritative.
type Targeter interface {
	Jumper
	Target() string
}

// BPFInstSize is the size of a single raw BPF instruction record in bytes.
const BPFInstSize = int(unsafe.Sizeof(RawInstruction{}))

// A RawInstruction is a single fixed-size BPF virtual machine instruction,
// laid out exactly as the kernel expects it in memory.
type RawInstruction struct {
	// Operation to execute, the low 3 bits are the instruction class.
	Op uint8
	// Destination register in the low nibble, source register in the high
	// nibble.
	Reg uint8
	// Signed offset, meaning depends on Op (jump target, memory offset).
	Off int16
	// Constant parameter, meaning depends on Op.
	Imm int32
}

func (i *RawInstruction) SetDestReg(v Register) {
	i.Reg = (i.Reg & 0xF0) | (uint8(v) & 0x0F)
}

func (i *RawInstruction) GetDestReg() Register {
	return Register(i.Reg & 0x0F)
}

func (i *RawInstruction) SetSourceReg(v Register) {
	i.Reg = (i.Reg & 0x0F) | (uint8(v) << 4 & 0xF0)
}

func (i *RawInstruction) GetSourceReg() Register {
	return Register((i.Reg & 0xF0) >> 4)
}

// MarshalBinary encodes the instruction into its 8-byte little-endian wire
// form, the exact format the kernel loader consumes.
func (i RawInstruction) MarshalBinary() ([]byte, error) {
	b := make([]byte, BPFInstSize)
	b[0] = i.Op
	b[1] = i.Reg
	binary.LittleEndian.PutUint16(b[2:4], uint16(i.Off))
	binary.LittleEndian.PutUint32(b[4:8], uint32(i.Imm))
	return b, nil
}

// UnmarshalBinary decodes an 8-byte little-endian instruction record.
func (i *RawInstruction) UnmarshalBinary(b []byte) error {
	if len(b) != BPFInstSize {
		return fmt.Errorf("expected %d bytes, got %d", BPFInstSize, len(b))
	}

	i.Op = b[0]
	i.Reg = b[1]
	i.Off = int16(binary.LittleEndian.Uint16(b[2:4]))
	i.Imm = int32(binary.LittleEndian.Uint32(b[4:8]))
	return nil
}

// MarshalInstructions encodes a program into its contiguous little-endian
// byte stream form.
func MarshalInstructions(insts []RawInstruction) []byte {
	buf := make([]byte, 0, len(insts)*BPFInstSize)
	for _, inst := range insts {
		b, _ := inst.MarshalBinary()
		buf = append(buf, b...)
	}
	return buf
}

// UnmarshalInstructions decodes a little-endian byte stream into raw
// instruction records. The buffer length must be a multiple of the
// instruction size.
func UnmarshalInstructions(b []byte) ([]RawInstruction, error) {
	if len(b)%BPFInstSize != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of the instruction size %d", len(b), BPFInstSize)
	}

	insts := make([]RawInstruction, len(b)/BPFInstSize)
	for i := range insts {
		if err := insts[i].UnmarshalBinary(b[i*BPFInstSize : (i+1)*BPFInstSize]); err != nil {
			return nil, err
		}
	}
	return insts, nil
}

// NewReg packs a source and destination register into the single register
// byte of a raw instruction.
func NewReg(src Register, dest Register) uint8 {
	return (uint8(src) << 4 & 0xF0) | (uint8(dest) & 0x0F)
}

// EncodingError is returned when a symbolic instruction is structurally
// invalid: a register outside r0-r10 or a field that does not fit its
// encoded size. These are caller contract violations and are always caught
// before any kernel interaction.
type EncodingError struct {
	Inst string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode '%s': %s", e.Inst, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// checkRegs validates all registers of an instruction, returning an
// EncodingError naming the offending instruction on violation.
func checkRegs(inst Instruction, regs ...Register) error {
	for _, r := range regs {
		if r >= BPF_REG_MAX {
			return &EncodingError{
				Inst: inst.String(),
				Err:  fmt.Errorf("register r%d out of range, valid registers are r0-r%d", uint8(r), uint8(BPF_REG_MAX)-1),
			}
		}
	}
	return nil
}

// MustEncode does the same as Encode but panics on error.
func MustEncode(raw []Instruction) []RawInstruction {
	inst, err := Encode(raw)
	if err != nil {
		panic(err)
	}

	return inst
}

// Encode turns a slice of symbolic instructions into raw instructions.
// Label markers encode to nothing; symbolic jump targets are not resolved,
// use Assemble for that.
func Encode(ins []Instruction) ([]RawInstruction, error) {
	// The output will be at least as big as the input
	instructions := make([]RawInstruction, 0, len(ins))
	for _, instruction := range ins {
		rawInstructions, err := instruction.Raw()
		if err != nil {
			return nil, err
		}

		instructions = append(instructions, rawInstructions...)
	}

	return instructions, nil
}

// Size indicates the width of a load or store operation.
type Size uint8

const (
	// BPF_W Word - 4 bytes
	BPF_W Size = 0x00
	// BPF_H Half-Word - 2 bytes
	BPF_H Size = 0x08
	// BPF_B Byte - 1 byte
	BPF_B Size = 0x10
	// BPF_DW Double-Word - 8 bytes
	BPF_DW Size = 0x18
)

func (s Size) String() string {
	switch s {
	case BPF_W:
		return "u32"
	case BPF_H:
		return "u16"
	case BPF_B:
		return "u8"
	case BPF_DW:
		return "u64"
	}

	return "invalid"
}

// Bytes returns the number of bytes the size refers to.
func (s Size) Bytes() int {
	switch s {
	case BPF_B:
		return 1
	case BPF_H:
		return 2
	case BPF_W:
		return 4
	case BPF_DW:
		return 8
	}
	return 0
}

// Register is one of the eleven general purpose registers of the BPF VM.
// r0 holds return values, r1-r5 are scratch/argument registers, r6-r9 are
// callee saved, r10 is the read-only frame pointer.
type Register uint8

const (
	BPF_REG_0 Register = iota
	BPF_REG_1
	BPF_REG_2
	BPF_REG_3
	BPF_REG_4
	BPF_REG_5
	BPF_REG_6
	BPF_REG_7
	BPF_REG_8
	BPF_REG_9
	// BPF_REG_10 is the frame pointer, a pointer to the start of the stack
	// data reserved for this program. It can't be written to.
	BPF_REG_10
	// BPF_REG_MAX is an invalid register used for range checks.
	BPF_REG_MAX
)

// PSEUDO_CALL in the source register of a call instruction marks it as a
// bpf-to-bpf call rather than a helper call.
const PSEUDO_CALL Register = 0x01

func (r Register) String() string {
	if r < BPF_REG_MAX {
		return fmt.Sprintf("r%d", r)
	}

	return "invalid"
}

// Instruction classes, the low 3 bits of the op byte.
const (
	// BPF_LD is used for specialized load operations
	BPF_LD uint8 = iota
	// BPF_LDX is used for generic load operations
	BPF_LDX
	// BPF_ST is used for specialized store operations
	BPF_ST
	// BPF_STX is used for generic store operations
	BPF_STX
	// BPF_ALU is used for 32bit arithmetic operations
	BPF_ALU
	// BPF_JMP is used for 64bit branching operations
	BPF_JMP
	// BPF_JMP32 is used for 32bit branching operations
	BPF_JMP32
	// BPF_ALU64 is used for 64bit arithmetic operations
	BPF_ALU64
)

// Load/store modes.
const (
	// BPF_IMM load an immediate value into a register
	BPF_IMM uint8 = 0x00
	// BPF_ABS load a value at an immediate offset from the socket buffer
	BPF_ABS uint8 = 0x20
	// BPF_IND load a value at a variable offset from the socket buffer
	BPF_IND uint8 = 0x40
	// BPF_MEM move values between registers and memory
	BPF_MEM uint8 = 0x60
	// BPF_ATOMIC atomic read-modify-write operations
	BPF_ATOMIC uint8 = 0xc0
)

// Source operand kind, a single bit of the op byte.
const (
	// BPF_K indicates that the source argument of an operation is an immediate value
	BPF_K uint8 = 0x00
	// BPF_X indicates that the source argument of an operation is a register
	BPF_X uint8 = 0x08
)

// ALU operations, the high nibble of the op byte for ALU classes.
const (
	BPF_ADD  uint8 = 0x00
	BPF_SUB  uint8 = 0x10
	BPF_MUL  uint8 = 0x20
	BPF_DIV  uint8 = 0x30
	BPF_OR   uint8 = 0x40
	BPF_AND  uint8 = 0x50
	BPF_LSH  uint8 = 0x60
	BPF_RSH  uint8 = 0x70
	BPF_NEG  uint8 = 0x80
	BPF_MOD  uint8 = 0x90
	BPF_XOR  uint8 = 0xa0
	BPF_MOV  uint8 = 0xb0
	BPF_ARSH uint8 = 0xc0
	// BPF_END endianness conversion, modeled as regular instructions
	BPF_END uint8 = 0xd0
)

// Jump operations, the high nibble of the op byte for jump classes.
const (
	BPF_JA   uint8 = 0x00
	BPF_JEQ  uint8 = 0x10
	BPF_JGT  uint8 = 0x20
	BPF_JGE  uint8 = 0x30
	BPF_JSET uint8 = 0x40
	BPF_JNE  uint8 = 0x50
	BPF_JSGT uint8 = 0x60
	BPF_JSGE uint8 = 0x70
	BPF_CALL uint8 = 0x80
	BPF_EXIT uint8 = 0x90
	BPF_JLT  uint8 = 0xa0
	BPF_JLE  uint8 = 0xb0
	BPF_JSLT uint8 = 0xc0
	BPF_JSLE uint8 = 0xd0
)

// Atomic modifiers.
const (
	// BPF_FETCH is not an opcode on its own, it modifies other atomic ops
	BPF_FETCH uint8 = 0x01
	// BPF_XCHG atomic exchange
	BPF_XCHG uint8 = 0xe0 | BPF_FETCH
	// BPF_CMPXCHG atomic compare-and-exchange
	BPF_CMPXCHG uint8 = 0xf0 | BPF_FETCH
)

// Endianness conversion directions.
const (
	// BPF_TO_LE convert to little-endian
	BPF_TO_LE uint8 = 0x00
	// BPF_TO_BE convert to big-endian
	BPF_TO_BE uint8 = 0x08
)

// XDP program return values.
const (
	XDP_ABORTED  = 0
	XDP_DROP     = 1
	XDP_PASS     = 2
	XDP_TX       = 3
	XDP_REDIRECT = 4
)
