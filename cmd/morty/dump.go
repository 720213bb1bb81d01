package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/smallo-lang/morty/pkg/rick"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump ARTIFACT",
		Short: "Print the memory pool and disassembly of a Rick artifact.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(cmd.OutOrStdout(), args[0])
		},
	}
}

func dump(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	a, err := rick.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(!color.NoColor)

	fmt.Fprintf(w, "=== Memory (%d slots) ===\n", len(a.Memory))
	for i, v := range a.Memory {
		fmt.Fprintf(w, "%4d: ", i)
		printer.Println(v)
	}

	fmt.Fprintf(w, "\n=== Code (%d bytes) ===\n", len(a.Code))
	fmt.Fprint(w, rick.Disassemble(a, nil))
	return nil
}
