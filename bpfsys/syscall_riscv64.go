//go:build riscv64 && linux
// +build riscv64,linux

package bpfsys

// SYS_BPF is the syscall number of bpf(2) on riscv64, from the kernel syscall tables.
const SYS_BPF = 280
