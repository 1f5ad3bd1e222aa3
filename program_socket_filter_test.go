//go:build bpftests
// +build bpftests

package bpfld

import (
	"syscall"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/ebpf"
)

// Tests that closing a program first detaches it from every socket it is still attached to
func TestProgramSocketFilter_CloseDetaches(t *testing.T) {
	instructions, err := ebpf.Assemble([]ebpf.Instruction{
		// Accept every packet
		&ebpf.Mov64{Dest: ebpf.BPF_REG_0, Value: -1},
		&ebpf.Exit{},
	})
	if err != nil {
		t.Fatal(err)
	}

	prog := &ProgramSocketFilter{
		AbstractBPFProgram: AbstractBPFProgram{
			Name:         MustNewObjName("test"),
			ProgramType:  bpftypes.BPF_PROG_TYPE_SOCKET_FILTER,
			License:      "GPL",
			Instructions: instructions,
		},
	}

	log, err := prog.Load(ProgSKFilterLoadOpts{})
	if err != nil {
		t.Fatal(err, log)
	}

	sockFD, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer unix.Close(sockFD)

	err = prog.Attach(uintptr(sockFD))
	if err != nil {
		t.Fatal(err)
	}

	err = prog.Close()
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.AttachedSocketFDs) != 0 {
		t.Fatal("attachment administration survived close")
	}

	if _, err := prog.Fd(); err == nil {
		t.Fatal("program fd still available after close")
	}

	// If close detached the program the socket carries no filter anymore, so
	// a detach on the socket itself must fail.
	err = syscall.SetsockoptInt(sockFD, syscall.SOL_SOCKET, unix.SO_DETACH_BPF, 0)
	if err == nil {
		t.Fatal("program was still attached to the socket after close")
	}
}
