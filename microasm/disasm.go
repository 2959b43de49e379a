package microasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/janstaffa/tower/isa"
)

// DisassembledStep is one decoded micro-step: the signal names asserted
// by its control word.
type DisassembledStep struct {
	Signals []string
}

// DisassembledDef is one decoded (opcode, IM, flags) group: a run of
// consecutive non-zero ROM entries sharing the same address prefix
// (spec.md §4.7).
type DisassembledDef struct {
	Opcode   int
	Mnemonic string
	Mode     isa.IM
	Flags    uint32
	Steps    []DisassembledStep
}

// Disassemble decodes a microcode ROM image back into DisassembledDefs,
// the inverse of Encode (spec.md §4.7). It is a pure function of the ROM
// bytes and the ISA table; out-of-core-scope beyond that contract.
func Disassemble(rom []byte) []DisassembledDef {
	shiftIM := isa.FlagsBitSize + isa.StepCounterBitSize
	shiftOpcode := isa.InstructionModeBitSize + shiftIM
	shiftFlags := isa.StepCounterBitSize
	stepMask := (1 << isa.StepCounterBitSize) - 1

	entries := len(rom) / isa.ControlBytes

	var defs []DisassembledDef
	var current *DisassembledDef

	for addr := 0; addr < entries; addr++ {
		opcode := addr >> shiftOpcode
		imIndex := (addr >> shiftIM) & ((1 << isa.InstructionModeBitSize) - 1)
		flags := uint32((addr >> shiftFlags) & ((1 << isa.FlagsBitSize) - 1))
		step := addr & stepMask

		word := readControlWord(rom[addr*isa.ControlBytes : addr*isa.ControlBytes+isa.ControlBytes])

		if word == 0 {
			current = nil
			continue
		}

		mode := isa.Modes()[imIndex]
		if current == nil || current.Opcode != opcode || current.Mode != mode || current.Flags != flags {
			mnemonic := ""
			if m, ok := isa.LookupOpcode(opcode); ok {
				mnemonic = m.Name
			}
			defs = append(defs, DisassembledDef{Opcode: opcode, Mnemonic: mnemonic, Mode: mode, Flags: flags})
			current = &defs[len(defs)-1]
		}

		_ = step
		current.Steps = append(current.Steps, DisassembledStep{Signals: decodeSignals(word)})
	}

	return defs
}

func readControlWord(b []byte) uint64 {
	var scratch [8]byte
	copy(scratch[8-len(b):], b)
	return binary.BigEndian.Uint64(scratch[:])
}

func decodeSignals(word uint64) []string {
	var names []string
	for i, name := range isa.ControlSignals {
		if word&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// Format renders DisassembledDefs as the human-readable text the
// `disassemble` CLI subcommand writes out (spec.md §6.5).
func Format(defs []DisassembledDef) string {
	var b strings.Builder
	for _, def := range defs {
		fmt.Fprintf(&b, "#def %s ; mode=%s flags=%02b\n", def.Mnemonic, def.Mode.Name(), def.Flags)
		for i, step := range def.Steps {
			fmt.Fprintf(&b, "  %d: %s\n", i, strings.Join(step.Signals, ", "))
		}
	}
	return b.String()
}
