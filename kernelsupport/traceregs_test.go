package kernelsupport

import "testing"

func TestTraceRegisterOffsets(t *testing.T) {
	regs := TraceRegisterOffsets

	if len(regs.Args) == 0 {
		t.Fatal("no argument registers defined for this architecture")
	}

	if regs.Width != 4 && regs.Width != 8 {
		t.Fatalf("invalid register width %d", regs.Width)
	}

	// Every argument must live in its own register
	seen := make(map[int16]bool, len(regs.Args))
	for i, off := range regs.Args {
		if off < 0 {
			t.Fatalf("argument %d has a negative offset %d", i, off)
		}
		if seen[off] {
			t.Fatalf("argument %d shares offset %d with another argument", i, off)
		}
		seen[off] = true
	}

	if regs.Ret < 0 || regs.SP < 0 || regs.IP < 0 {
		t.Fatal("return value, stack pointer and instruction pointer offsets must not be negative")
	}
}
