package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/probekit/bpfld/ebpf"
)

var disasmFormat string

var disasmCmd = &cobra.Command{
	Use:   "disasm <file>",
	Short: "Disassemble eBPF bytecode into a readable listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	disasmCmd.Flags().StringVarP(&disasmFormat, "format", "f", "raw",
		"input format, one of: raw, hex, base64")
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	contents, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var bytecode []byte
	switch disasmFormat {
	case "raw":
		bytecode = contents
	case "hex":
		bytecode, err = hex.DecodeString(strings.TrimSpace(string(contents)))
		if err != nil {
			return fmt.Errorf("decode hex: %w", err)
		}
	case "base64":
		bytecode, err = base64.StdEncoding.DecodeString(strings.TrimSpace(string(contents)))
		if err != nil {
			return fmt.Errorf("decode base64: %w", err)
		}
	default:
		return fmt.Errorf("unknown input format %q", disasmFormat)
	}

	raw, err := ebpf.UnmarshalInstructions(bytecode)
	if err != nil {
		return fmt.Errorf("unmarshal instructions: %w", err)
	}

	insts, err := ebpf.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	// Wide instructions take up two raw slots, track the raw address separately
	// so jump offsets in the listing line up with what the kernel sees.
	addr := 0
	for _, inst := range insts {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d: %s\n", addr, inst)

		rawInsts, err := inst.Raw()
		if err != nil {
			return fmt.Errorf("raw size of %q: %w", inst, err)
		}
		addr += len(rawInsts)
	}

	return nil
}
