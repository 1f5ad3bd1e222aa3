//go:build s390x && linux
// +build s390x,linux

package bpfsys

// SYS_BPF is the syscall number of bpf(2) on s390x, from the kernel syscall tables.
const SYS_BPF = 351
