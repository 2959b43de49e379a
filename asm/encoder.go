package asm

import "github.com/janstaffa/tower/isa"

// Encode lays out a resolved instruction list as flat program-memory bytes
// (spec.md §4.3): one opcode byte per instruction, `(opcode << 3) |
// mode.BitIndex()`, followed by its big-endian argument bytes (0, 1, or 2
// of them per the mode's ArgSize). Encoding never fails: Parse already
// rejected anything that couldn't be emitted.
func Encode(instructions []Instruction) []byte {
	out := make([]byte, 0, len(instructions)*2)
	for _, inst := range instructions {
		opcode, _, _, _ := isa.Lookup(inst.Mnemonic)
		out = append(out, byte(opcode<<3)|byte(inst.Mode.BitIndex()))
		out = append(out, encodeArg(inst.Mode, inst.Arg)...)
	}
	return out
}

func encodeArg(mode isa.IM, arg *Argument) []byte {
	size := mode.ArgSize()
	if size == 0 {
		return nil
	}
	var v uint32
	if arg != nil {
		v = arg.Value
	}
	if size == 1 {
		return []byte{byte(v)}
	}
	return []byte{byte(v >> 8), byte(v)}
}
