//go:build arm64 && linux
// +build arm64,linux

package bpfsys

// SYS_BPF is the syscall number of bpf(2) on arm64, from the kernel syscall tables.
const SYS_BPF = 280
