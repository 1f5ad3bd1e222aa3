package ebpf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer/stateful"
)

var (
	ebpfLexer = stateful.MustSimple([]stateful.Rule{
		{Name: "Comment", Pattern: `(?:#|//)[^\n]*`, Action: nil},
		{Name: "Register32", Pattern: `w[0-9]{1,2}`, Action: nil},
		{Name: "Register64", Pattern: `r[0-9]{1,2}`, Action: nil},
		{Name: "Number", Pattern: `0x[0-9a-fA-F]+|0b[01]+|\d+`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z0-9_.]+`, Action: nil},
		{Name: "LabelEnd", Pattern: `:`, Action: nil},
		{Name: "Punct", Pattern: `[-[!@#$%^&*()+_={}\\\|;'"<,>.?/]|]`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t\r]+`, Action: nil},
		{Name: "Newline", Pattern: `\n`, Action: nil},
	})
	ebpfParser = participle.MustBuild(&asmFile{},
		participle.Lexer(ebpfLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(100),
	)
)

// AssemblyToInstructions takes in a reader and the name of the file which is
// used in error messages. It parses the contents as a super set of
// clang/LLVM eBPF assembly and returns the symbolic program, labels
// included. The result still has to go through Assemble to resolve label
// references into offsets.
func AssemblyToInstructions(filename string, reader io.Reader) ([]Instruction, error) {
	ast := &asmFile{}
	err := ebpfParser.Parse(filename, reader, ast)
	if err != nil {
		return nil, fmt.Errorf("error while parsing: %w", err)
	}

	var instructions []Instruction
	for i, entry := range ast.Entries {
		if entry.Label != "" {
			instructions = append(instructions, &Label{Name: entry.Label})
			continue
		}

		if entry.Instruction != nil {
			inst, err := entry.Instruction.ToInst()
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}

			instructions = append(instructions, inst)
		}
	}

	return instructions, nil
}

type asmFile struct {
	Entries []*entry `parser:"@@*"`
}

type entry struct {
	Label       string       `parser:"( @(Ident|Number)+ LabelEnd"`
	Instruction *instruction `parser:"| @@ )? Newline*"`
}

func (r *Register) Capture(values []string) error {
	// Join all values, and strip the leading r or w
	i, err := strconv.Atoi(strings.Join(values, "")[1:])
	if err != nil {
		return err
	}

	*r = Register(i)

	return nil
}

func (s *Size) Capture(values []string) error {
	switch strings.Join(values, "") {
	case "u8":
		*s = BPF_B
	case "u16":
		*s = BPF_H
	case "u32":
		*s = BPF_W
	case "u64":
		*s = BPF_DW
	default:
		return fmt.Errorf("'%s' is not a valid operand size", strings.Join(values, ""))
	}

	return nil
}

// immediate captures a possibly negative, possibly hex or binary number.
type immediate int64

func (i *immediate) Capture(values []string) error {
	v, err := strconv.ParseInt(strings.Join(values, ""), 0, 64)
	if err != nil {
		return err
	}

	*i = immediate(v)

	return nil
}

type instruction struct {
	Exit      bool           `parser:"  @'exit'"`
	Nop       bool           `parser:"| @'nop'"`
	Jump      *jumpStmt      `parser:"| @@"`
	CondJump  *condJumpStmt  `parser:"| @@"`
	Call      *callStmt      `parser:"| @@"`
	Atomic    *atomicStmt    `parser:"| @@"`
	Store     *storeStmt     `parser:"| @@"`
	LoadSkb   *loadSkbStmt   `parser:"| @@"`
	LoadMem   *loadMemStmt   `parser:"| @@"`
	LoadImm64 *loadImm64Stmt `parser:"| @@"`
	Endian    *endianStmt    `parser:"| @@"`
	Neg       *negStmt       `parser:"| @@"`
	ALU       *aluStmt       `parser:"| @@"`
}

func (i *instruction) ToInst() (Instruction, error) {
	switch {
	case i.Exit:
		return &Exit{}, nil
	case i.Nop:
		return &Nop{}, nil
	case i.Jump != nil:
		return i.Jump.ToInst()
	case i.CondJump != nil:
		return i.CondJump.ToInst()
	case i.Call != nil:
		return i.Call.ToInst()
	case i.Atomic != nil:
		return i.Atomic.ToInst()
	case i.Store != nil:
		return i.Store.ToInst()
	case i.LoadSkb != nil:
		return i.LoadSkb.ToInst()
	case i.LoadMem != nil:
		return i.LoadMem.ToInst()
	case i.LoadImm64 != nil:
		return i.LoadImm64.ToInst()
	case i.Endian != nil:
		return i.Endian.ToInst()
	case i.Neg != nil:
		return i.Neg.ToInst()
	case i.ALU != nil:
		return i.ALU.ToInst()
	}

	return nil, fmt.Errorf("empty statement")
}

// jumpTargetAST is either a relative offset with a mandatory sign, a label
// in angle brackets, or a bare label.
type jumpTargetAST struct {
	Sign   string     `parser:"( @('+'|'-')"`
	Offset *immediate `parser:"  @Number"`
	Label  string     `parser:"| '<' @(Ident|Number)+ '>'"`
	Bare   string     `parser:"| @Ident )"`
}

func (t *jumpTargetAST) resolve() (int16, string, error) {
	if t.Offset != nil {
		off := int64(*t.Offset)
		if t.Sign == "-" {
			off = -off
		}
		if off < -32768 || off > 32767 {
			return 0, "", fmt.Errorf("jump offset %d doesn't fit in 16 bits", off)
		}
		return int16(off), "", nil
	}
	if t.Label != "" {
		return 0, t.Label, nil
	}

	return 0, t.Bare, nil
}

type jumpStmt struct {
	Target jumpTargetAST `parser:"'goto' @@"`
}

func (j *jumpStmt) ToInst() (Instruction, error) {
	off, label, err := j.Target.resolve()
	if err != nil {
		return nil, err
	}

	return &Jump{Label: label, Offset: off}, nil
}

type condJumpStmt struct {
	Dest32   *Register     `parser:"'if' ( @Register32"`
	Dest     *Register     `parser:"| @Register64 )"`
	Operator string        `parser:"@('s'? ('<'|'>'|'='|'!'|'&') '='?)"`
	Value    *immediate    `parser:"( @('-'? Number)"`
	Src32    *Register     `parser:"| @Register32"`
	Src      *Register     `parser:"| @Register64 )"`
	Target   jumpTargetAST `parser:"'goto' @@"`
}

func (j *condJumpStmt) ToInst() (Instruction, error) {
	off, label, err := j.Target.resolve()
	if err != nil {
		return nil, err
	}

	is32 := j.Dest32 != nil
	dest := j.Dest
	if is32 {
		dest = j.Dest32
	}
	src := j.Src
	if j.Src32 != nil {
		src = j.Src32
	}

	if src == nil {
		val := int64(*j.Value)
		if val < -2147483648 || val > 4294967295 {
			return nil, fmt.Errorf("comparison value %d doesn't fit in 32 bits", val)
		}
		return condJumpImm(j.Operator, is32, *dest, uint32(val), off, label)
	}

	return condJumpReg(j.Operator, is32, *dest, *src, off, label)
}

func condJumpImm(op string, is32 bool, dst Register, val uint32, off int16, label string) (Instruction, error) {
	if is32 {
		switch op {
		case "==":
			return &JumpEqual32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		case "!=":
			return &JumpNotEqual32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		case ">":
			return &JumpGreaterThan32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		case ">=":
			return &JumpGreaterThanEqual32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		case "<":
			return &JumpSmallerThan32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		case "<=":
			return &JumpSmallerThanEqual32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		case "s>":
			return &JumpSignedGreaterThan32{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
		case "s>=":
			return &JumpSignedGreaterThanEqual32{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
		case "s<":
			return &JumpSignedSmallerThan32{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
		case "s<=":
			return &JumpSignedSmallerThanEqual32{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
		case "&":
			return &JumpAnd32{Label: label, Dest: dst, Offset: off, Value: val}, nil
		}
		return nil, fmt.Errorf("unknown comparison operator '%s'", op)
	}

	switch op {
	case "==":
		return &JumpEqual{Label: label, Dest: dst, Offset: off, Value: val}, nil
	case "!=":
		return &JumpNotEqual{Label: label, Dest: dst, Offset: off, Value: val}, nil
	case ">":
		return &JumpGreaterThan{Label: label, Dest: dst, Offset: off, Value: val}, nil
	case ">=":
		return &JumpGreaterThanEqual{Label: label, Dest: dst, Offset: off, Value: val}, nil
	case "<":
		return &JumpSmallerThan{Label: label, Dest: dst, Offset: off, Value: val}, nil
	case "<=":
		return &JumpSmallerThanEqual{Label: label, Dest: dst, Offset: off, Value: val}, nil
	case "s>":
		return &JumpSignedGreaterThan{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
	case "s>=":
		return &JumpSignedGreaterThanEqual{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
	case "s<":
		return &JumpSignedSmallerThan{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
	case "s<=":
		return &JumpSignedSmallerThanEqual{Label: label, Dest: dst, Offset: off, Value: int32(val)}, nil
	case "&":
		return &JumpAnd{Label: label, Dest: dst, Offset: off, Value: val}, nil
	}

	return nil, fmt.Errorf("unknown comparison operator '%s'", op)
}

func condJumpReg(op string, is32 bool, dst, src Register, off int16, label string) (Instruction, error) {
	if is32 {
		switch op {
		case "==":
			return &JumpEqual32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "!=":
			return &JumpNotEqual32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case ">":
			return &JumpGreaterThan32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case ">=":
			return &JumpGreaterThanEqual32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "<":
			return &JumpSmallerThan32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "<=":
			return &JumpSmallerThanEqual32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "s>":
			return &JumpSignedGreaterThan32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "s>=":
			return &JumpSignedGreaterThanEqual32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "s<":
			return &JumpSignedSmallerThan32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "s<=":
			return &JumpSignedSmallerThanEqual32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		case "&":
			return &JumpAnd32Register{Label: label, Dest: dst, Src: src, Offset: off}, nil
		}
		return nil, fmt.Errorf("unknown comparison operator '%s'", op)
	}

	switch op {
	case "==":
		return &JumpEqualRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "!=":
		return &JumpNotEqualRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case ">":
		return &JumpGreaterThanRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case ">=":
		return &JumpGreaterThanEqualRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "<":
		return &JumpSmallerThanRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "<=":
		return &JumpSmallerThanEqualRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "s>":
		return &JumpSignedGreaterThanRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "s>=":
		return &JumpSignedGreaterThanEqualRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "s<":
		return &JumpSignedSmallerThanRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "s<=":
		return &JumpSignedSmallerThanEqualRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	case "&":
		return &JumpAndRegister{Label: label, Dest: dst, Src: src, Offset: off}, nil
	}

	return nil, fmt.Errorf("unknown comparison operator '%s'", op)
}

type callStmt struct {
	Sign     string     `parser:"'call' ( @('+'|'-')?"`
	Function *immediate `parser:"  @Number"`
	Label    string     `parser:"| '<' @(Ident|Number)+ '>'"`
	Bare     string     `parser:"| @Ident )"`
}

func (c *callStmt) ToInst() (Instruction, error) {
	if c.Function != nil {
		if c.Sign != "" {
			off := int64(*c.Function)
			if c.Sign == "-" {
				off = -off
			}
			return &CallBPF{Offset: int32(off)}, nil
		}
		return &CallHelper{Function: int32(*c.Function)}, nil
	}
	if c.Label != "" {
		return &CallBPF{Label: c.Label}, nil
	}

	return &CallBPF{Label: c.Bare}, nil
}

// memRefAST is a sized memory operand like (u32 *)(r1 + 8).
type memRefAST struct {
	Size Size      `parser:"'(' @Ident '*' ')' '('"`
	Reg  Register  `parser:"( @Register32 | @Register64 )"`
	Sign string    `parser:"( @('+'|'-')"`
	Off  immediate `parser:"@Number )? ')'"`
}

func (m *memRefAST) offset() (int16, error) {
	off := int64(m.Off)
	if m.Sign == "-" {
		off = -off
	}
	if off < -32768 || off > 32767 {
		return 0, fmt.Errorf("memory offset %d doesn't fit in 16 bits", off)
	}
	return int16(off), nil
}

type atomicStmt struct {
	Lock    *atomicLockStmt    `parser:"  @@"`
	Fetch   *atomicFetchStmt   `parser:"| @@"`
	Xchg    *atomicXchgStmt    `parser:"| @@"`
	CmpXchg *atomicCmpXchgStmt `parser:"| @@"`
}

func (a *atomicStmt) ToInst() (Instruction, error) {
	switch {
	case a.Lock != nil:
		return a.Lock.ToInst()
	case a.Fetch != nil:
		return a.Fetch.ToInst()
	case a.Xchg != nil:
		return a.Xchg.ToInst()
	case a.CmpXchg != nil:
		return a.CmpXchg.ToInst()
	}

	return nil, fmt.Errorf("empty atomic statement")
}

type atomicLockStmt struct {
	Mem      memRefAST `parser:"'lock' '*' @@"`
	Operator string    `parser:"@(('+'|'&'|'|'|'^') '=')"`
	Src      Register  `parser:"@Register64"`
}

func (a *atomicLockStmt) ToInst() (Instruction, error) {
	off, err := a.Mem.offset()
	if err != nil {
		return nil, err
	}

	switch a.Operator {
	case "+=":
		return &AtomicAdd{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size}, nil
	case "&=":
		return &AtomicAnd{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size}, nil
	case "|=":
		return &AtomicOr{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size}, nil
	case "^=":
		return &AtomicXor{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size}, nil
	}

	return nil, fmt.Errorf("unknown atomic operator '%s'", a.Operator)
}

type atomicFetchStmt struct {
	Ret Register  `parser:"@Register64 '='"`
	Op  string    `parser:"@('atomic_fetch_add'|'atomic_fetch_and'|'atomic_fetch_or'|'atomic_fetch_xor') '('"`
	Mem memRefAST `parser:"@@ ','"`
	Src Register  `parser:"@Register64 ')'"`
}

func (a *atomicFetchStmt) ToInst() (Instruction, error) {
	off, err := a.Mem.offset()
	if err != nil {
		return nil, err
	}
	if a.Ret != a.Src {
		return nil, fmt.Errorf("fetch destination must be the source register")
	}

	switch a.Op {
	case "atomic_fetch_add":
		return &AtomicAdd{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size, Fetch: true}, nil
	case "atomic_fetch_and":
		return &AtomicAnd{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size, Fetch: true}, nil
	case "atomic_fetch_or":
		return &AtomicOr{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size, Fetch: true}, nil
	case "atomic_fetch_xor":
		return &AtomicXor{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size, Fetch: true}, nil
	}

	return nil, fmt.Errorf("unknown atomic operation '%s'", a.Op)
}

type atomicXchgStmt struct {
	Ret Register  `parser:"@Register64 '=' 'xchg' '('"`
	Mem memRefAST `parser:"@@ ','"`
	Src Register  `parser:"@Register64 ')'"`
}

func (a *atomicXchgStmt) ToInst() (Instruction, error) {
	off, err := a.Mem.offset()
	if err != nil {
		return nil, err
	}
	if a.Ret != a.Src {
		return nil, fmt.Errorf("exchange destination must be the source register")
	}

	return &AtomicExchange{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size}, nil
}

type atomicCmpXchgStmt struct {
	Ret Register  `parser:"@Register64 '=' 'cmpxchg' '('"`
	Mem memRefAST `parser:"@@ ','"`
	Cmp Register  `parser:"@Register64 ','"`
	Src Register  `parser:"@Register64 ')'"`
}

func (a *atomicCmpXchgStmt) ToInst() (Instruction, error) {
	off, err := a.Mem.offset()
	if err != nil {
		return nil, err
	}
	if a.Ret != BPF_REG_0 || a.Cmp != BPF_REG_0 {
		return nil, fmt.Errorf("compare-and-exchange always works via r0")
	}

	return &AtomicCompareExchange{Dest: a.Mem.Reg, Src: a.Src, Offset: off, Size: a.Mem.Size}, nil
}

type storeStmt struct {
	Mem   memRefAST  `parser:"'*' @@ '='"`
	Value *immediate `parser:"( @('-'? Number)"`
	Src   *Register  `parser:"| @Register32 | @Register64 )"`
}

func (s *storeStmt) ToInst() (Instruction, error) {
	off, err := s.Mem.offset()
	if err != nil {
		return nil, err
	}

	if s.Src != nil {
		return &StoreMemoryRegister{Dest: s.Mem.Reg, Src: *s.Src, Offset: off, Size: s.Mem.Size}, nil
	}

	return &StoreMemoryConstant{Dest: s.Mem.Reg, Offset: off, Size: s.Mem.Size, Value: int32(*s.Value)}, nil
}

type loadSkbStmt struct {
	Size Size       `parser:"Register64 '=' '*' '(' @Ident '*' ')' 'skb' '['"`
	Src  *Register  `parser:"( @Register64"`
	Sign string     `parser:"  ( @('+'|'-')"`
	Off  *immediate `parser:"    @Number )?"`
	Abs  *immediate `parser:"| @('-'? Number) ) ']'"`
}

func (l *loadSkbStmt) ToInst() (Instruction, error) {
	if l.Src != nil {
		var off int32
		if l.Off != nil {
			off = int32(*l.Off)
			if l.Sign == "-" {
				off = -off
			}
		}
		return &LoadSocketBufIndirect{Src: *l.Src, Offset: off, Size: l.Size}, nil
	}

	return &LoadSocketBuf{Offset: int32(*l.Abs), Size: l.Size}, nil
}

type loadMemStmt struct {
	Dest32 *Register `parser:"( @Register32"`
	Dest   *Register `parser:"| @Register64 ) '=' '*'"`
	Mem    memRefAST `parser:"@@"`
}

func (l *loadMemStmt) ToInst() (Instruction, error) {
	off, err := l.Mem.offset()
	if err != nil {
		return nil, err
	}

	dest := l.Dest
	if l.Dest32 != nil {
		dest = l.Dest32
	}

	return &LoadMemory{Dest: *dest, Src: l.Mem.Reg, Offset: off, Size: l.Mem.Size}, nil
}

type loadImm64Stmt struct {
	Dest  Register  `parser:"@Register64 '='"`
	Value immediate `parser:"@('-'? Number) 'll'"`
}

func (l *loadImm64Stmt) ToInst() (Instruction, error) {
	v := uint64(int64(l.Value))
	return &LoadConstant64bit{Dest: l.Dest, Val1: uint32(v), Val2: uint32(v >> 32)}, nil
}

type endianStmt struct {
	Dest Register `parser:"@Register64 '='"`
	Op   string   `parser:"@('be16'|'be32'|'be64'|'le16'|'le32'|'le64')"`
	Src  Register `parser:"@Register64"`
}

func (e *endianStmt) ToInst() (Instruction, error) {
	if e.Dest != e.Src {
		return nil, fmt.Errorf("endianness conversion works in place, source and destination must match")
	}

	bits, err := strconv.ParseInt(e.Op[2:], 10, 32)
	if err != nil {
		return nil, err
	}

	if e.Op[:2] == "be" {
		return &EndToBE{Dest: e.Dest, Bits: int32(bits)}, nil
	}
	return &EndToLE{Dest: e.Dest, Bits: int32(bits)}, nil
}

type negStmt struct {
	Dest32 *Register `parser:"( @Register32"`
	Dest   *Register `parser:"| @Register64 ) '=' '-'"`
	Src32  *Register `parser:"( @Register32"`
	Src    *Register `parser:"| @Register64 )"`
}

func (n *negStmt) ToInst() (Instruction, error) {
	is32 := n.Dest32 != nil
	dest := n.Dest
	if is32 {
		dest = n.Dest32
	}
	src := n.Src
	if n.Src32 != nil {
		src = n.Src32
	}
	if *dest != *src {
		return nil, fmt.Errorf("negation works in place, source and destination must match")
	}

	if is32 {
		return &Neg32{Dest: *dest}, nil
	}
	return &Neg64{Dest: *dest}, nil
}

type aluStmt struct {
	Dest32   *Register  `parser:"( @Register32"`
	Dest     *Register  `parser:"| @Register64 )"`
	Operator string     `parser:"@('s'? ('+'|'-'|'*'|'/'|'|'|'&'|'%'|'^'|'<' '<'|'>' '>')? '=')"`
	Value    *immediate `parser:"( @('-'? Number)"`
	Src32    *Register  `parser:"| @Register32"`
	Src      *Register  `parser:"| @Register64 )"`
}

func (a *aluStmt) ToInst() (Instruction, error) {
	is32 := a.Dest32 != nil
	dest := a.Dest
	if is32 {
		dest = a.Dest32
	}
	src := a.Src
	if a.Src32 != nil {
		src = a.Src32
	}

	if src == nil {
		val := int64(*a.Value)
		if val < -2147483648 || val > 2147483647 {
			return nil, fmt.Errorf("immediate value %d doesn't fit in 32 bits", val)
		}
		return aluImm(a.Operator, is32, *dest, int32(val))
	}

	return aluReg(a.Operator, is32, *dest, *src)
}

func aluImm(op string, is32 bool, dst Register, val int32) (Instruction, error) {
	if is32 {
		switch op {
		case "+=":
			return &Add32{Dest: dst, Value: val}, nil
		case "-=":
			return &Sub32{Dest: dst, Value: val}, nil
		case "*=":
			return &Mul32{Dest: dst, Value: val}, nil
		case "/=":
			return &Div32{Dest: dst, Value: val}, nil
		case "|=":
			return &Or32{Dest: dst, Value: val}, nil
		case "&=":
			return &And32{Dest: dst, Value: val}, nil
		case "<<=":
			return &Lsh32{Dest: dst, Value: val}, nil
		case ">>=":
			return &Rsh32{Dest: dst, Value: val}, nil
		case "s>>=":
			return &ARSH32{Dest: dst, Value: val}, nil
		case "%=":
			return &Mod32{Dest: dst, Value: val}, nil
		case "^=":
			return &Xor32{Dest: dst, Value: val}, nil
		case "=":
			return &Mov32{Dest: dst, Value: val}, nil
		}
		return nil, fmt.Errorf("unknown ALU operator '%s'", op)
	}

	switch op {
	case "+=":
		return &Add64{Dest: dst, Value: val}, nil
	case "-=":
		return &Sub64{Dest: dst, Value: val}, nil
	case "*=":
		return &Mul64{Dest: dst, Value: val}, nil
	case "/=":
		return &Div64{Dest: dst, Value: val}, nil
	case "|=":
		return &Or64{Dest: dst, Value: val}, nil
	case "&=":
		return &And64{Dest: dst, Value: val}, nil
	case "<<=":
		return &Lsh64{Dest: dst, Value: val}, nil
	case ">>=":
		return &Rsh64{Dest: dst, Value: val}, nil
	case "s>>=":
		return &ARSH64{Dest: dst, Value: val}, nil
	case "%=":
		return &Mod64{Dest: dst, Value: val}, nil
	case "^=":
		return &Xor64{Dest: dst, Value: val}, nil
	case "=":
		return &Mov64{Dest: dst, Value: val}, nil
	}

	return nil, fmt.Errorf("unknown ALU operator '%s'", op)
}

func aluReg(op string, is32 bool, dst, src Register) (Instruction, error) {
	if is32 {
		switch op {
		case "+=":
			return &Add32Register{Dest: dst, Src: src}, nil
		case "-=":
			return &Sub32Register{Dest: dst, Src: src}, nil
		case "*=":
			return &Mul32Register{Dest: dst, Src: src}, nil
		case "/=":
			return &Div32Register{Dest: dst, Src: src}, nil
		case "|=":
			return &Or32Register{Dest: dst, Src: src}, nil
		case "&=":
			return &And32Register{Dest: dst, Src: src}, nil
		case "<<=":
			return &Lsh32Register{Dest: dst, Src: src}, nil
		case ">>=":
			return &Rsh32Register{Dest: dst, Src: src}, nil
		case "s>>=":
			return &ARSH32Register{Dest: dst, Src: src}, nil
		case "%=":
			return &Mod32Register{Dest: dst, Src: src}, nil
		case "^=":
			return &Xor32Register{Dest: dst, Src: src}, nil
		case "=":
			return &Mov32Register{Dest: dst, Src: src}, nil
		}
		return nil, fmt.Errorf("unknown ALU operator '%s'", op)
	}

	switch op {
	case "+=":
		return &Add64Register{Dest: dst, Src: src}, nil
	case "-=":
		return &Sub64Register{Dest: dst, Src: src}, nil
	case "*=":
		return &Mul64Register{Dest: dst, Src: src}, nil
	case "/=":
		return &Div64Register{Dest: dst, Src: src}, nil
	case "|=":
		return &Or64Register{Dest: dst, Src: src}, nil
	case "&=":
		return &And64Register{Dest: dst, Src: src}, nil
	case "<<=":
		return &Lsh64Register{Dest: dst, Src: src}, nil
	case ">>=":
		return &Rsh64Register{Dest: dst, Src: src}, nil
	case "s>>=":
		return &ARSH64Register{Dest: dst, Src: src}, nil
	case "%=":
		return &Mod64Register{Dest: dst, Src: src}, nil
	case "^=":
		return &Xor64Register{Dest: dst, Src: src}, nil
	case "=":
		return &Mov64Register{Dest: dst, Src: src}, nil
	}

	return nil, fmt.Errorf("unknown ALU operator '%s'", op)
}
