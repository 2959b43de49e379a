// Command microasm compiles a Tower microprogram description into a
// microcode ROM image, and can disassemble one back to text
// (spec.md §6.5).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/janstaffa/tower/config"
	"github.com/janstaffa/tower/microasm"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	action := os.Args[1]
	fs := flag.NewFlagSet(action, flag.ExitOnError)
	inPath := fs.String("in", "", "Source file")
	outPath := fs.String("out", "", "Output file path")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Failed to read the input file.")
		os.Exit(1)
	}

	start := time.Now()

	switch action {
	case "assemble":
		output := *outPath
		if output == "" {
			output = cfg.Microassembler.DefaultAssembleOutput
		}

		fmt.Printf("Assembling '%s'...\n", *inPath)
		rom, asmErr := microasm.Assemble(string(source))
		if asmErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", asmErr)
			os.Exit(1)
		}
		if err := os.WriteFile(output, rom, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to write the output file: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Finished and written to '%s' (after %dms)\n", output, time.Since(start).Milliseconds())

	case "disassemble":
		output := *outPath
		if output == "" {
			output = cfg.Microassembler.DefaultDisassembleOutput
		}

		fmt.Printf("Disassembling '%s'...\n", *inPath)
		defs := microasm.Disassemble(source)
		text := microasm.Format(defs)
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to write the output file: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Finished and written to '%s' (after %dms)\n", output, time.Since(start).Milliseconds())

	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown subcommand '%s'.\n", action)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: microasm <assemble|disassemble> -in <file> [-out <file>]")
}
