package microasm

import "github.com/janstaffa/tower/asmerr"

// Assemble runs the full microcode-assembler pipeline over source text and
// returns the encoded ROM image, or an AssemblerError identifying the
// stage that failed.
func Assemble(source string) ([]byte, *asmerr.AssemblerError) {
	lines, err := Tokenize(source)
	if err != nil {
		return nil, asmerr.NewAssemblerError(asmerr.StageTokenize, "failed to tokenize source", err)
	}

	defs, err := Parse(lines)
	if err != nil {
		return nil, asmerr.NewAssemblerError(asmerr.StageParse, "failed to parse source", err)
	}

	return Encode(defs), nil
}
