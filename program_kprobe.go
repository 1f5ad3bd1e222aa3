package bpfld

import (
	"fmt"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/ebpf"
	"github.com/probekit/bpfld/kernelsupport"
	"github.com/probekit/bpfld/perf"
)

var _ BPFProgram = (*ProgramKProbe)(nil)

type ProgramKProbe struct {
	AbstractBPFProgram

	// DefaultGroup is the kprobe group used if no group is specified during attaching.
	// It can be set when loading from ELF file.
	DefaultGroup string
	// DefaultEvent is the kprobe event used if no event is specified during attaching.
	// It can be set when loading from ELF file.
	DefaultEvent  string
	DefaultModule string
	DefaultSymbol string

	attachedEvent *perf.Event
}

type ProgKPLoadOpts struct {
	VerifierLogLevel bpftypes.BPFLogLevel
	VerifierLogSize  int
}

func (p *ProgramKProbe) Load(opts ProgKPLoadOpts) (log string, err error) {
	return p.load(bpfsys.BPFAttrProgramLoad{
		LogLevel: opts.VerifierLogLevel,
		LogSize:  uint32(opts.VerifierLogSize),
	})
}

// Unpin captures the file descriptor of the program at the given 'relativePath' from the kernel.
// If 'deletePin' is true the bpf FS pin will be removed after successfully loading the program, thus transferring
// ownership of the program in a scenario where the program is not shared between multiple userspace programs.
// Otherwise the pin will keep existing which will cause the program to not be deleted when this program exits.
func (p *ProgramKProbe) Unpin(relativePath string, deletePin bool) error {
	return p.unpin(relativePath, deletePin)
}

type ProgKPAttachOpts struct {
	perf.KProbeOpts
}

func (p *ProgramKProbe) Attach(opts ProgKPAttachOpts) error {
	if !p.loaded {
		return ErrProgramNotLoaded
	}

	kprobeOpts := perf.KProbeOpts{
		Group:  p.DefaultGroup,
		Event:  p.DefaultEvent,
		Module: p.DefaultModule,
		Symbol: p.DefaultSymbol,
	}

	if opts.Group != "" {
		kprobeOpts.Group = opts.Group
	}

	if opts.Event != "" {
		kprobeOpts.Event = opts.Event
	}

	if opts.Module != "" {
		kprobeOpts.Module = opts.Module
	}

	if opts.Symbol != "" {
		kprobeOpts.Symbol = opts.Symbol
	}

	var err error
	p.attachedEvent, err = perf.OpenKProbeEvent(kprobeOpts)
	if err != nil {
		return fmt.Errorf("open kprobe: %w", err)
	}

	err = p.attachedEvent.AttachBPFProgram(p.fd)
	if err != nil {
		return fmt.Errorf("attach program: %w", err)
	}

	return nil
}

func (p *ProgramKProbe) Detach() error {
	if p.attachedEvent == nil {
		return fmt.Errorf("program is not attached")
	}

	err := p.attachedEvent.DetachBPFProgram()
	if err != nil {
		return err
	}

	p.attachedEvent = nil
	return nil
}

// Close detaches the program from its perf event if it is still attached and closes the program fd.
// Attachments never outlive the program handle.
func (p *ProgramKProbe) Close() error {
	if p.attachedEvent != nil {
		err := p.Detach()
		if err != nil {
			return fmt.Errorf("detach: %w", err)
		}
	}

	return p.close()
}

func traceRegLoadSize() ebpf.Size {
	if kernelsupport.TraceRegisterOffsets.Width == 4 {
		return ebpf.BPF_W
	}

	return ebpf.BPF_DW
}

// LoadKProbeArg returns the instruction which loads the n'th argument (zero based) of the
// probed function into dst. The trace context pointer is passed to the program in r1, so
// the instruction must be emitted before r1 is clobbered.
func LoadKProbeArg(n int, dst ebpf.Register) (ebpf.Instruction, error) {
	offsets := kernelsupport.TraceRegisterOffsets.Args
	if n < 0 || n >= len(offsets) {
		return nil, fmt.Errorf("argument %d is not passed in a register on this architecture", n)
	}

	return &ebpf.LoadMemory{
		Dest:   dst,
		Src:    ebpf.BPF_REG_1,
		Offset: offsets[n],
		Size:   traceRegLoadSize(),
	}, nil
}

// LoadKProbeReturn returns the instruction which loads the return value of the probed
// function into dst. Only meaningful in a program attached to a kretprobe.
func LoadKProbeReturn(dst ebpf.Register) ebpf.Instruction {
	return &ebpf.LoadMemory{
		Dest:   dst,
		Src:    ebpf.BPF_REG_1,
		Offset: kernelsupport.TraceRegisterOffsets.Ret,
		Size:   traceRegLoadSize(),
	}
}
