// Package asm implements the Tower program assembler: tokenizing,
// macro-expanding, label-resolving, and encoding Tower assembly source
// into flat program-memory bytes (spec.md §3, §4).
package asm

import "github.com/janstaffa/tower/asmerr"

// Assemble runs the full program-assembler pipeline over source text and
// returns the encoded program bytes, or an AssemblerError identifying the
// stage that failed.
func Assemble(source string) ([]byte, *asmerr.AssemblerError) {
	lines, err := Tokenize(source)
	if err != nil {
		return nil, asmerr.NewAssemblerError(asmerr.StageTokenize, "failed to tokenize source", err)
	}

	instructions, err := Parse(lines)
	if err != nil {
		return nil, asmerr.NewAssemblerError(asmerr.StageParse, "failed to parse source", err)
	}

	return Encode(instructions), nil
}
