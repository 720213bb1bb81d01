// morty assembles SmallO source into bytecode for the Rick VM.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smallo-lang/morty/pkg/assembler"
	"github.com/smallo-lang/morty/pkg/includer"
	"github.com/smallo-lang/morty/pkg/rick"
)

// SourceExt is the required extension of a SmallO source file
const SourceExt = ".so"

// stageError tags an error with the pipeline stage that produced it
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return fmt.Sprintf("[%s] %v", e.stage, e.err) }
func (e *stageError) Unwrap() error { return e.err }

func main() {
	// glog writes to files by default; an assembler run wants stderr.
	if err := flag.Set("logtostderr", "true"); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}

	err := newRootCmd().Execute()
	glog.Flush()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "morty SOURCE",
		Short: "Assemble SmallO code to produce bytecode for Rick.",
		Long: `Morty translates a SmallO source file, together with every file it
includes through >"path" directives, into a single Rick artifact.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Let glog see the flags cobra parsed for it.
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.LocalNonPersistentFlags()); err != nil {
				return err
			}
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cfg, args[0], cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")

	flags := cmd.Flags()
	flags.StringP(keyTarget, "t", defaultTarget, "Path to bytecode target.")
	flags.Int(keyMaxIncludeDepth, 0, "Maximum include nesting (0 = unlimited).")
	flags.Bool(keyDisasm, false, "Print the disassembly of the assembled program.")

	cmd.AddCommand(newDumpCmd())
	return cmd
}

// run is the whole pipeline: include, assemble, serialize
func run(cfg Config, src string, stdout io.Writer) error {
	if filepath.Ext(src) != SourceExt {
		return fmt.Errorf("source file extension is invalid: '%s' expected", SourceExt)
	}

	lines, err := includer.Load(src, includer.WithMaxDepth(cfg.MaxIncludeDepth))
	if err != nil {
		return &stageError{"loader", err}
	}

	prog, err := assembler.Assemble(lines)
	if err != nil {
		return &stageError{"preprocessor", err}
	}

	data, err := rick.Marshal(prog.Memory, prog.Code)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Target, data, 0o644); err != nil {
		return fmt.Errorf("write target: %w", err)
	}
	glog.V(1).Infof("%s: %d bytes -> %s", src, len(data), cfg.Target)

	if cfg.Disasm {
		fmt.Fprint(stdout, rick.Disassemble(&rick.Artifact{Memory: prog.Memory, Code: prog.Code}, prog.Labels))
	}
	return nil
}

// printError renders a fatal error in red, prefixed and lowercased
func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "Error: %s\n", strings.ToLower(err.Error()))
}
