package ebpf

import "fmt"

// Decode turns raw instructions back into symbolic instructions. Jumps keep
// their numeric offsets, no labels are reconstructed. The second slot of a
// wide load decodes into a Nop so indices keep lining up.
func Decode(raw []RawInstruction) ([]Instruction, error) {
	program := make([]Instruction, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		inst, wide, err := decodeOne(raw, i)
		if err != nil {
			return nil, fmt.Errorf("decode instruction %d: %w", i, err)
		}

		program = append(program, inst)
		if wide {
			program = append(program, &Nop{})
			i++
		}
	}

	return program, nil
}

func decodeOne(raw []RawInstruction, i int) (Instruction, bool, error) {
	r := raw[i]
	class := r.Op & 0x07

	switch class {
	case BPF_LD:
		return decodeLD(raw, i)
	case BPF_LDX:
		if r.Op&0xE0 != BPF_MEM {
			return nil, false, fmt.Errorf("unknown load mode 0x%02x", r.Op&0xE0)
		}
		return &LoadMemory{
			Dest:   r.GetDestReg(),
			Src:    r.GetSourceReg(),
			Offset: r.Off,
			Size:   Size(r.Op & 0x18),
		}, false, nil
	case BPF_ST:
		if r.Op&0xE0 != BPF_MEM {
			return nil, false, fmt.Errorf("unknown store mode 0x%02x", r.Op&0xE0)
		}
		return &StoreMemoryConstant{
			Dest:   r.GetDestReg(),
			Offset: r.Off,
			Size:   Size(r.Op & 0x18),
			Value:  r.Imm,
		}, false, nil
	case BPF_STX:
		return decodeSTX(r)
	case BPF_ALU, BPF_ALU64:
		return decodeALU(r)
	case BPF_JMP, BPF_JMP32:
		return decodeJump(r)
	}

	return nil, false, fmt.Errorf("unknown instruction class 0x%02x", class)
}

func decodeLD(raw []RawInstruction, i int) (Instruction, bool, error) {
	r := raw[i]
	size := Size(r.Op & 0x18)

	switch r.Op & 0xE0 {
	case BPF_IMM:
		if size != BPF_DW {
			return nil, false, fmt.Errorf("immediate load must be double-word sized")
		}
		if i+1 >= len(raw) {
			return nil, false, fmt.Errorf("wide load truncated, missing second slot")
		}
		return &LoadConstant64bit{
			Dest: r.GetDestReg(),
			Src:  r.GetSourceReg(),
			Val1: uint32(r.Imm),
			Val2: uint32(raw[i+1].Imm),
		}, true, nil
	case BPF_ABS:
		return &LoadSocketBuf{Offset: r.Imm, Size: size}, false, nil
	case BPF_IND:
		return &LoadSocketBufIndirect{Src: r.GetSourceReg(), Offset: r.Imm, Size: size}, false, nil
	}

	return nil, false, fmt.Errorf("unknown load mode 0x%02x", r.Op&0xE0)
}

func decodeSTX(r RawInstruction) (Instruction, bool, error) {
	switch r.Op & 0xE0 {
	case BPF_MEM:
		return &StoreMemoryRegister{
			Dest:   r.GetDestReg(),
			Src:    r.GetSourceReg(),
			Offset: r.Off,
			Size:   Size(r.Op & 0x18),
		}, false, nil
	case BPF_ATOMIC:
		return decodeAtomic(r)
	}

	return nil, false, fmt.Errorf("unknown store mode 0x%02x", r.Op&0xE0)
}

func decodeAtomic(r RawInstruction) (Instruction, bool, error) {
	dst, src := r.GetDestReg(), r.GetSourceReg()
	size := Size(r.Op & 0x18)
	fetch := r.Imm&int32(BPF_FETCH) != 0

	switch uint8(r.Imm) &^ BPF_FETCH {
	case BPF_ADD:
		return &AtomicAdd{Dest: dst, Src: src, Offset: r.Off, Size: size, Fetch: fetch}, false, nil
	case BPF_AND:
		return &AtomicAnd{Dest: dst, Src: src, Offset: r.Off, Size: size, Fetch: fetch}, false, nil
	case BPF_OR:
		return &AtomicOr{Dest: dst, Src: src, Offset: r.Off, Size: size, Fetch: fetch}, false, nil
	case BPF_XOR:
		return &AtomicXor{Dest: dst, Src: src, Offset: r.Off, Size: size, Fetch: fetch}, false, nil
	case BPF_XCHG &^ BPF_FETCH:
		if !fetch {
			break
		}
		return &AtomicExchange{Dest: dst, Src: src, Offset: r.Off, Size: size}, false, nil
	case BPF_CMPXCHG &^ BPF_FETCH:
		if !fetch {
			break
		}
		return &AtomicCompareExchange{Dest: dst, Src: src, Offset: r.Off, Size: size}, false, nil
	}

	return nil, false, fmt.Errorf("unknown atomic operation 0x%02x", r.Imm)
}

func decodeALU(r RawInstruction) (Instruction, bool, error) {
	is64 := r.Op&0x07 == BPF_ALU64
	isReg := r.Op&BPF_X != 0
	dst, src := r.GetDestReg(), r.GetSourceReg()

	op := r.Op & 0xF0
	if op == BPF_END {
		if is64 {
			return nil, false, fmt.Errorf("endianness conversion must use the 32bit ALU class")
		}
		if r.Op&BPF_TO_BE != 0 {
			return &EndToBE{Dest: dst, Bits: r.Imm}, false, nil
		}
		return &EndToLE{Dest: dst, Bits: r.Imm}, false, nil
	}
	if op == BPF_NEG {
		if is64 {
			return &Neg64{Dest: dst}, false, nil
		}
		return &Neg32{Dest: dst}, false, nil
	}

	type variants struct {
		imm32, reg32, imm64, reg64 Instruction
	}

	v, ok := map[uint8]variants{
		BPF_ADD: {&Add32{dst, r.Imm}, &Add32Register{dst, src}, &Add64{dst, r.Imm}, &Add64Register{dst, src}},
		BPF_SUB: {&Sub32{dst, r.Imm}, &Sub32Register{dst, src}, &Sub64{dst, r.Imm}, &Sub64Register{dst, src}},
		BPF_MUL: {&Mul32{dst, r.Imm}, &Mul32Register{dst, src}, &Mul64{dst, r.Imm}, &Mul64Register{dst, src}},
		BPF_DIV: {&Div32{dst, r.Imm}, &Div32Register{dst, src}, &Div64{dst, r.Imm}, &Div64Register{dst, src}},
		BPF_OR:  {&Or32{dst, r.Imm}, &Or32Register{dst, src}, &Or64{dst, r.Imm}, &Or64Register{dst, src}},
		BPF_AND: {&And32{dst, r.Imm}, &And32Register{dst, src}, &And64{dst, r.Imm}, &And64Register{dst, src}},
		BPF_LSH: {&Lsh32{dst, r.Imm}, &Lsh32Register{dst, src}, &Lsh64{dst, r.Imm}, &Lsh64Register{dst, src}},
		BPF_RSH: {&Rsh32{dst, r.Imm}, &Rsh32Register{dst, src}, &Rsh64{dst, r.Imm}, &Rsh64Register{dst, src}},
		BPF_MOD: {&Mod32{dst, r.Imm}, &Mod32Register{dst, src}, &Mod64{dst, r.Imm}, &Mod64Register{dst, src}},
		BPF_XOR: {&Xor32{dst, r.Imm}, &Xor32Register{dst, src}, &Xor64{dst, r.Imm}, &Xor64Register{dst, src}},
		BPF_MOV: {&Mov32{dst, r.Imm}, &Mov32Register{dst, src}, &Mov64{dst, r.Imm}, &Mov64Register{dst, src}},
		BPF_ARSH: {
			&ARSH32{dst, r.Imm}, &ARSH32Register{dst, src},
			&ARSH64{dst, r.Imm}, &ARSH64Register{dst, src},
		},
	}[op]
	if !ok {
		return nil, false, fmt.Errorf("unknown ALU operation 0x%02x", op)
	}

	switch {
	case is64 && isReg:
		return v.reg64, false, nil
	case is64:
		return v.imm64, false, nil
	case isReg:
		return v.reg32, false, nil
	default:
		return v.imm32, false, nil
	}
}

func decodeJump(r RawInstruction) (Instruction, bool, error) {
	is32 := r.Op&0x07 == BPF_JMP32
	isReg := r.Op&BPF_X != 0
	dst, src := r.GetDestReg(), r.GetSourceReg()

	switch op := r.Op & 0xF0; op {
	case BPF_JA:
		if is32 {
			return nil, false, fmt.Errorf("unconditional jump must use the 64bit jump class")
		}
		return &Jump{Offset: r.Off}, false, nil
	case BPF_CALL:
		if r.GetSourceReg() == PSEUDO_CALL {
			return &CallBPF{Offset: r.Imm}, false, nil
		}
		return &CallHelper{Function: r.Imm}, false, nil
	case BPF_EXIT:
		return &Exit{}, false, nil
	case BPF_JEQ:
		return condJump(is32, isReg,
			&JumpEqual{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpEqualRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpEqual32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpEqual32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JNE:
		return condJump(is32, isReg,
			&JumpNotEqual{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpNotEqualRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpNotEqual32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpNotEqual32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JGT:
		return condJump(is32, isReg,
			&JumpGreaterThan{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpGreaterThanRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpGreaterThan32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpGreaterThan32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JGE:
		return condJump(is32, isReg,
			&JumpGreaterThanEqual{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpGreaterThanEqualRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpGreaterThanEqual32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpGreaterThanEqual32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JLT:
		return condJump(is32, isReg,
			&JumpSmallerThan{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpSmallerThanRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpSmallerThan32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpSmallerThan32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JLE:
		return condJump(is32, isReg,
			&JumpSmallerThanEqual{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpSmallerThanEqualRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpSmallerThanEqual32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpSmallerThanEqual32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JSGT:
		return condJump(is32, isReg,
			&JumpSignedGreaterThan{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedGreaterThanRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpSignedGreaterThan32{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedGreaterThan32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JSGE:
		return condJump(is32, isReg,
			&JumpSignedGreaterThanEqual{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedGreaterThanEqualRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpSignedGreaterThanEqual32{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedGreaterThanEqual32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JSLT:
		return condJump(is32, isReg,
			&JumpSignedSmallerThan{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedSmallerThanRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpSignedSmallerThan32{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedSmallerThan32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JSLE:
		return condJump(is32, isReg,
			&JumpSignedSmallerThanEqual{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedSmallerThanEqualRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpSignedSmallerThanEqual32{Dest: dst, Offset: r.Off, Value: r.Imm},
			&JumpSignedSmallerThanEqual32Register{Dest: dst, Src: src, Offset: r.Off})
	case BPF_JSET:
		return condJump(is32, isReg,
			&JumpAnd{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpAndRegister{Dest: dst, Src: src, Offset: r.Off},
			&JumpAnd32{Dest: dst, Offset: r.Off, Value: uint32(r.Imm)},
			&JumpAnd32Register{Dest: dst, Src: src, Offset: r.Off})
	default:
		return nil, false, fmt.Errorf("unknown jump operation 0x%02x", op)
	}
}

func condJump(is32, isReg bool, imm, reg, imm32, reg32 Instruction) (Instruction, bool, error) {
	switch {
	case is32 && isReg:
		return reg32, false, nil
	case is32:
		return imm32, false, nil
	case isReg:
		return reg, false, nil
	default:
		return imm, false, nil
	}
}
