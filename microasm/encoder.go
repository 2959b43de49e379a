package microasm

import (
	"encoding/binary"

	"github.com/janstaffa/tower/isa"
)

// romAddressBits returns the total address width, in bits, of the
// microcode ROM (spec.md §4.6).
func romAddressBits() int {
	return isa.OpcodeBitSize + isa.InstructionModeBitSize + isa.FlagsBitSize + isa.StepCounterBitSize
}

// Encode lays out surviving InstructionDefs into a flat, zero-filled ROM
// image addressed by (opcode, im_index, flags, step_index), each entry a
// big-endian ControlBytes-wide control word (spec.md §4.6, §6.4).
func Encode(defs []*InstructionDef) []byte {
	size := (1 << uint(romAddressBits())) * isa.ControlBytes
	out := make([]byte, size)

	shiftIM := isa.FlagsBitSize + isa.StepCounterBitSize
	shiftOpcode := isa.InstructionModeBitSize + shiftIM
	shiftFlags := isa.StepCounterBitSize

	for _, def := range defs {
		imIndex := def.Mode.BitIndex()
		base := ((def.Opcode << shiftOpcode) | (imIndex << shiftIM) | (int(def.Flags) << shiftFlags)) * isa.ControlBytes

		for i, step := range def.Steps {
			offset := base + i*isa.ControlBytes
			writeControlWord(out[offset:offset+isa.ControlBytes], step.Exponents)
		}
	}
	return out
}

// writeControlWord packs a step's signal exponents into dst (ControlBytes
// wide) as a big-endian bitmask, via a full 8-byte scratch word so
// encoding/binary can do the byte-order work.
func writeControlWord(dst []byte, exponents []int) {
	var word uint64
	for _, e := range exponents {
		word |= 1 << uint(e)
	}
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], word)
	copy(dst, scratch[8-len(dst):])
}
