package ebpf

var _ Instruction = (*Nop)(nil)

// Nop is a symbolic placeholder which encodes to no raw instructions at all.
// The decoder produces it for the second slot of a wide load so symbolic
// indices keep lining up with raw indices.
type Nop struct{}

func (n *Nop) Raw() ([]RawInstruction, error) {
	return nil, nil
}

func (n *Nop) String() string {
	return "nop"
}
