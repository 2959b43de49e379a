// Command asm compiles Tower assembly source into flat program-memory
// bytes (spec.md §6.5).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/janstaffa/tower/asm"
	"github.com/janstaffa/tower/config"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Source file to assemble")
		outPath = flag.String("out", "", "Output file path")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	output := *outPath
	if output == "" {
		output = cfg.Assembler.DefaultOutput
	}

	source, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Failed to read the input file.")
		os.Exit(1)
	}

	start := time.Now()
	fmt.Printf("Assembling '%s'...\n", *inPath)

	program, asmErr := asm.Assemble(string(source))
	if asmErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", asmErr)
		os.Exit(1)
	}

	if err := os.WriteFile(output, program, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to write the output file: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Finished and written to '%s' (after %dms)\n", output, time.Since(start).Milliseconds())
}
