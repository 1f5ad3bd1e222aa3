package bpfld

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/ebpf"
)

func TestLoadRejectsProgramWithoutInstructions(t *testing.T) {
	prog := NewAbstractBPFProgram()
	prog.ProgramType = bpftypes.BPF_PROG_TYPE_SOCKET_FILTER
	prog.Name = MustNewObjName("test")
	prog.License = "GPL"

	_, err := prog.load(bpfsys.BPFAttrProgramLoad{})
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.StringContains(err.Error(), "no instructions"))
}

func TestDecodeToReaderNegativeOperands(t *testing.T) {
	instructions, err := ebpf.Assemble([]ebpf.Instruction{
		&ebpf.LoadMemory{Dest: ebpf.BPF_REG_2, Src: ebpf.BPF_REG_1, Offset: -8, Size: ebpf.BPF_DW},
		&ebpf.Mov64{Dest: ebpf.BPF_REG_0, Value: -1},
		&ebpf.Exit{},
	})
	qt.Assert(t, qt.IsNil(err))

	prog := NewAbstractBPFProgram()
	prog.Instructions = instructions

	var sb strings.Builder
	qt.Assert(t, qt.IsNil(prog.DecodeToReader(&sb)))
	listing := sb.String()

	// Negative offsets and immediates must render as plain hex bytes
	qt.Assert(t, qt.IsTrue(strings.Contains(listing, "ff f8")))
	qt.Assert(t, qt.IsTrue(strings.Contains(listing, "ff ff ff ff")))
}
