package bpfld

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/probekit/bpfld/ebpf"
	"github.com/probekit/bpfld/kernelsupport"
)

func TestLoadKProbeArg(t *testing.T) {
	inst, err := LoadKProbeArg(0, ebpf.BPF_REG_2)
	qt.Assert(t, qt.IsNil(err))

	lm, ok := inst.(*ebpf.LoadMemory)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(lm.Dest, ebpf.BPF_REG_2))
	qt.Assert(t, qt.Equals(lm.Src, ebpf.BPF_REG_1))
	qt.Assert(t, qt.Equals(lm.Offset, kernelsupport.TraceRegisterOffsets.Args[0]))

	// A load must encode without errors so it can go straight into a program
	raw, err := inst.Raw()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(raw, 1))
}

func TestLoadKProbeArgOutOfRange(t *testing.T) {
	_, err := LoadKProbeArg(len(kernelsupport.TraceRegisterOffsets.Args), ebpf.BPF_REG_2)
	qt.Assert(t, qt.IsNotNil(err))

	_, err = LoadKProbeArg(-1, ebpf.BPF_REG_2)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestLoadKProbeReturn(t *testing.T) {
	inst := LoadKProbeReturn(ebpf.BPF_REG_0)

	lm, ok := inst.(*ebpf.LoadMemory)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(lm.Src, ebpf.BPF_REG_1))
	qt.Assert(t, qt.Equals(lm.Offset, kernelsupport.TraceRegisterOffsets.Ret))
}
