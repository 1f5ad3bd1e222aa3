//go:build amd64 && linux
// +build amd64,linux

package bpfsys

// SYS_BPF is the syscall number of bpf(2) on amd64, from the kernel syscall tables.
const SYS_BPF = 321
