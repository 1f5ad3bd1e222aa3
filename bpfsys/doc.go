// Package bpfsys wraps the bpf(2) syscall. It exposes one attribute struct per
// syscall command with the exact memory layout the kernel expects, plus typed
// wrapper functions that fill in command numbers and translate errno values.
// Most users should prefer the higher level bpfld package, which builds on the
// primitives defined here.
package bpfsys
