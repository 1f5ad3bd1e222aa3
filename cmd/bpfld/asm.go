package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/probekit/bpfld/ebpf"
)

var asmFormat string

var asmCmd = &cobra.Command{
	Use:   "asm <file>",
	Short: "Assemble an eBPF assembly file into bytecode",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsm,
}

func init() {
	asmCmd.Flags().StringVarP(&asmFormat, "format", "f", "hex",
		"output format, one of: hex, base64, raw")
	rootCmd.AddCommand(asmCmd)
}

func runAsm(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	insts, err := ebpf.AssemblyToInstructions(args[0], file)
	if err != nil {
		return fmt.Errorf("parse assembly: %w", err)
	}

	raw, err := ebpf.Assemble(insts)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}

	bytecode := ebpf.MarshalInstructions(raw)

	switch asmFormat {
	case "hex":
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(bytecode))
	case "base64":
		fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(bytecode))
	case "raw":
		_, err = cmd.OutOrStdout().Write(bytecode)
		if err != nil {
			return fmt.Errorf("write bytecode: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", asmFormat)
	}

	return nil
}
