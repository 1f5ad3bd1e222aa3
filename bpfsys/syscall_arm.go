//go:build arm && linux
// +build arm,linux

package bpfsys

// SYS_BPF is the syscall number of bpf(2) on arm, from the kernel syscall tables.
const SYS_BPF = 386
