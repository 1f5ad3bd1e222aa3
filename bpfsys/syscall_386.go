//go:build 386 && linux
// +build 386,linux

package bpfsys

// SYS_BPF is the syscall number of bpf(2) on 386, from the kernel syscall tables.
const SYS_BPF = 357
