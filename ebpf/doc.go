// Package ebpf contains the symbolic instruction model for eBPF programs, an
// encoder which turns symbolic instructions into the raw 8-byte records the
// kernel accepts, a matching decoder, and an assembler which resolves symbolic
// jump labels into relative offsets.
//
// Programs are built as a slice of Instruction values, optionally interspersed
// with Label markers. Assemble turns such a slice into raw instructions with
// all label references resolved.
package ebpf
