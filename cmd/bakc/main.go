// Command bakc is the command-line front-end for the Bakscript compiler.
//
// It reads a source file (or standard input when no path is given),
// drives it through the full pipeline, and writes the resulting x86-64
// assembly to an output file. Diagnostics are printed in color to
// standard error; the compiler itself never shells out to an assembler
// or linker (spec.md §6, §1 "Deliberately out of scope").
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Harshit13-12/bakc/internal/bakclog"
	compiler "github.com/Harshit13-12/bakc/internal/compile"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

var (
	debugFlag    bool
	optimizeFlag bool
	outFlag      string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bakc [source-file]",
		Short: "Compile a Bakscript program to x86-64 assembly",
		Long: "bakc compiles a Bakscript source file into x86-64 NASM-style assembly text.\n" +
			"With no source-file argument, it reads the program from standard input.",
		Args: cobra.MaximumNArgs(1),
		RunE: runCompile,
	}

	cmd.Flags().BoolVar(&debugFlag, "debug", false, "annotate emitted assembly with source line comments")
	cmd.Flags().BoolVar(&optimizeFlag, "opt", false, "run the optional optimizer pass before code generation")
	cmd.Flags().StringVar(&outFlag, "out", "x86_64.asm", "output assembly file path")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	if debugFlag {
		bakclog.SetLevel(zerolog.DebugLevel)
	}

	source, err := readSource(args)
	if err != nil {
		errColor.Fprintf(os.Stderr, "bakc: %s\n", err)
		return err
	}

	c := compiler.New(source)
	c.SetDebug(debugFlag)
	c.SetOptimize(optimizeFlag)

	asm, err := c.Compile()
	if err != nil {
		if len(c.Diagnostics) > 0 {
			for _, d := range c.Diagnostics {
				errColor.Fprintf(os.Stderr, "%s\n", d.String())
			}
		} else {
			warnColor.Fprintf(os.Stderr, "bakc: %s\n", err)
		}
		// No file written, but a failed parse or semantic check is not an
		// I/O or allocation failure; exit code 0 either way (spec.md §6).
		return nil
	}

	if err := os.WriteFile(outFlag, []byte(asm), 0o644); err != nil {
		errColor.Fprintf(os.Stderr, "bakc: writing %s: %s\n", outFlag, err)
		return err
	}

	infoColor.Fprintf(os.Stderr, "wrote %s\n", outFlag)
	infoColor.Fprintf(os.Stderr, "assemble with: nasm -f win64 %s -o x86_64.o\n", outFlag)
	return nil
}

func readSource(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(data), nil
}
